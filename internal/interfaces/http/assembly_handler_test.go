package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/repository"
	"github.com/jhoicas/Ensamblaje-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Ensamblaje-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testComponentID = "00000000-0000-0000-0000-00000000000a"
	testProductID   = "00000000-0000-0000-0000-00000000000b"
	testBatch1      = "00000000-0000-0000-0000-0000000000b1"
	testBatch2      = "00000000-0000-0000-0000-0000000000b2"
	testUserID      = "00000000-0000-0000-0000-000000000001"
)

// seededStore producto de prueba = 2 × componente; lotes B1 (1 u., $10) y B2 (5 u., $2).
func seededStore() *memory.Store {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	store.Seed(func(s *memory.Seeder) {
		s.Component(entity.Component{ID: testComponentID, SKU: "RAM", Name: "Memoria", MinimumQuantity: 2})
		s.Product(entity.Product{ID: testProductID, SKU: "PC"}, entity.BOMItem{ComponentID: testComponentID, QuantityRequired: 2})
		s.Batch(entity.StockBatch{ID: testBatch1, ComponentID: testComponentID, BatchNumber: "RAM-0001",
			InitialQuantity: 1, CurrentQuantity: 1, UnitCost: decimal.NewFromInt(10), DateReceived: t0})
		s.Batch(entity.StockBatch{ID: testBatch2, ComponentID: testComponentID, BatchNumber: "RAM-0002",
			InitialQuantity: 5, CurrentQuantity: 5, UnitCost: decimal.NewFromInt(2), DateReceived: t0.AddDate(0, 1, 0)})
	})
	return store
}

// buildTestApp aplicación Fiber con las rutas reales sobre el store en memoria.
func buildTestApp(txRunner inventory.TxRunner, reads repository.UnitOfWork) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Assemblies: inventory.NewAssemblyService(txRunner, reads),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func createBody(serials []string, sel ...dto.SelectedBatchRequest) dto.CreateAssembliesRequest {
	return dto.CreateAssembliesRequest{
		ProductID:       testProductID,
		Quantity:        len(serials),
		SerialNumbers:   serials,
		AssembledByID:   testUserID,
		SelectedBatches: sel,
	}
}

func use(batchID string, qty int) dto.SelectedBatchRequest {
	return dto.SelectedBatchRequest{ComponentID: testComponentID, BatchID: batchID, QuantityUsed: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ensambles
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAssemblies_201YDetalle(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	resp, body := doJSON(t, app, http.MethodPost, "/api/assemblies", createBody([]string{"SN-1"}, use(testBatch1, 1), use(testBatch2, 1)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	ids := body["assembly_ids"].([]any)
	require.Len(t, ids, 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/assemblies/"+ids[0].(string), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_PROGRESS", body["status"])
	assert.Equal(t, "SN-1", body["serial_number"])
	assert.Equal(t, "12", body["material_cost"])
	assert.Len(t, body["allocations"], 2)
}

func TestCreateAssemblies_ErroresDeValidacion(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"cantidad distinta a la BOM", createBody([]string{"SN-1"}, use(testBatch1, 1), use(testBatch2, 2)), fiber.StatusBadRequest, "QUANTITY_MISMATCH"},
		{"sin asignación", createBody([]string{"SN-1"}), fiber.StatusBadRequest, "ALLOCATION_REQUIRED"},
		{"stock insuficiente", createBody([]string{"SN-1"}, use(testBatch1, 2)), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"serial repetido", createBody([]string{"SN-1", "SN-1"}, use(testBatch2, 4)), fiber.StatusConflict, "DUPLICATE_SERIAL"},
		{"distribución desconocida", dto.CreateAssembliesRequest{
			ProductID: testProductID, Quantity: 1, SerialNumbers: []string{"SN-1"}, AssembledByID: testUserID,
			SelectedBatches: []dto.SelectedBatchRequest{use(testBatch2, 2)}, Distribution: "random",
		}, fiber.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/assemblies", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body["code"])
		})
	}
	assert.Empty(t, store.Assemblies())
}

func TestCreateAssemblies_CuerpoInvalido(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	req := httptest.NewRequest(http.MethodPost, "/api/assemblies", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type failSecondRunner struct {
	inner inventory.TxRunner
	calls int
}

func (r *failSecondRunner) Run(ctx context.Context, fn func(ctx context.Context, uow repository.UnitOfWork) error) error {
	r.calls++
	if r.calls > 1 {
		return errors.New("conexión perdida")
	}
	return r.inner.Run(ctx, fn)
}

func TestCreateAssemblies_FalloParcialDevuelveConfirmados(t *testing.T) {
	store := seededStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Assemblies: inventory.NewAssemblyService(&failSecondRunner{inner: store}, store.Reads(),
			inventory.WithChunkRunner(inventory.NewChunkRunner(1, 0, 0))),
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/assemblies", createBody([]string{"SN-1", "SN-2"}, use(testBatch2, 4)))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "PARTIAL_FAILURE", body["code"])
	assert.EqualValues(t, 1, body["committed"])
	assert.EqualValues(t, 2, body["total"])
	assert.Len(t, body["assembly_ids"], 1)
}

func TestUpdateQC_YEliminar(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	_, body := doJSON(t, app, http.MethodPost, "/api/assemblies", createBody([]string{"SN-1", "SN-2"}, use(testBatch2, 4)))
	ids := body["assembly_ids"].([]any)
	first, second := ids[0].(string), ids[1].(string)

	resp, body := doJSON(t, app, http.MethodPatch, "/api/assemblies/"+first+"/qc", dto.UpdateAssemblyQCRequest{Status: "passed_qc"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "PASSED_QC", body["status"])
	assert.NotNil(t, body["completion_time"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/assemblies/"+first+"/qc", dto.UpdateAssemblyQCRequest{Status: "IN_PROGRESS"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/assemblies/"+first, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "solo se eliminan ensambles en curso")

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/assemblies/"+second, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/assemblies/"+second, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateQC_EnlazaLotesDeEnsambleDiferido(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	req := createBody([]string{"SN-D"})
	req.DeferAllocation = true
	resp, body := doJSON(t, app, http.MethodPost, "/api/assemblies", req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	id := body["assembly_ids"].([]any)[0].(string)

	resp, body = doJSON(t, app, http.MethodGet, "/api/assemblies/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["batches_processed"])
	assert.Empty(t, body["allocations"])

	qc := dto.UpdateAssemblyQCRequest{
		Status:          "PASSED_QC",
		SelectedBatches: []dto.SelectedBatchRequest{use(testBatch1, 1), use(testBatch2, 1)},
	}
	resp, body = doJSON(t, app, http.MethodPatch, "/api/assemblies/"+id+"/qc", qc)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["batches_processed"])

	// Reenvío del mismo cierre: sin filas ni descuentos nuevos.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/assemblies/"+id+"/qc", qc)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/assemblies/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["allocations"], 2)
	assert.Equal(t, "12", body["material_cost"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/components/"+testComponentID+"/stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, body["on_hand"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Componentes y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestComponentes_LotesYStock(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	resp, body := doJSON(t, app, http.MethodPost, "/api/components/"+testComponentID+"/batches",
		dto.ReceiveBatchRequest{VendorID: "PROV-1", Quantity: 3, UnitCost: decimal.NewFromInt(4)})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "RAM-0003", body["batch_number"])

	req := httptest.NewRequest(http.MethodGet, "/api/components/"+testComponentID+"/batches", nil)
	r, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	var batches []dto.StockBatchResponse
	require.NoError(t, json.NewDecoder(r.Body).Decode(&batches))
	require.Len(t, batches, 3)
	assert.Equal(t, "RAM-0001", batches[0].BatchNumber, "orden FIFO")

	resp, body = doJSON(t, app, http.MethodGet, "/api/components/"+testComponentID+"/stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, body["on_hand"])
	assert.Equal(t, false, body["below_minimum"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/components/"+testComponentID+"/batches",
		dto.ReceiveBatchRequest{VendorID: "PROV-1", Quantity: -1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/components/desconocido/stock", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductos_BOM(t *testing.T) {
	store := seededStore()
	app := buildTestApp(store, store.Reads())

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+testProductID+"/bom", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var bom []dto.BOMItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bom))
	assert.Equal(t, []dto.BOMItemResponse{{ComponentID: testComponentID, QuantityRequired: 2}}, bom)

	r, _ := doJSON(t, app, http.MethodGet, "/api/products/desconocido/bom", nil)
	assert.Equal(t, fiber.StatusNotFound, r.StatusCode)
}
