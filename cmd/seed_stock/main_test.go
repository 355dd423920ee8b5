package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sampleCSV = `sku;nombre;categoria;minimo;proveedor;cantidad;costo_unitario;fecha_recepcion
RES-10K;Resistencia cerámica;Pasivos;100;PROV-1;500;0,0125;2024-02-01
RES-10K;Resistencia cerámica;Pasivos;100;PROV-2;300;0,0110;2024-01-15
CPU-A;Procesador;Activos;5;PROV-3;20;85.5;2024-01-20
`

func TestReadRows_Latin1(t *testing.T) {
	var latin1 bytes.Buffer
	w := transform.NewWriter(&latin1, charmap.ISO8859_1.NewEncoder())
	_, err := w.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := readRows(transform.NewReader(&latin1, charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "RES-10K", rows[0].SKU)
	assert.Equal(t, "Resistencia cerámica", rows[0].Name)
	assert.Equal(t, "0.0125", rows[0].UnitCost.String(), "la coma decimal se acepta")
	assert.Equal(t, 500, rows[0].Quantity)
}

func TestParseRecord_Invalido(t *testing.T) {
	_, err := parseRecord([]string{"X", "n", "c", "1", "P", "0", "1", "2024-01-01"})
	assert.Error(t, err, "cantidad cero")

	_, err = parseRecord([]string{"X", "n", "c", "1", "P", "5", "-1", "2024-01-01"})
	assert.Error(t, err, "costo negativo")

	_, err = parseRecord([]string{"X", "n", "c"})
	assert.Error(t, err, "columnas faltantes")
}

func TestWriteSQL_ComponentesUnicosYLotesPorFecha(t *testing.T) {
	rows, err := readRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeSQL(&out, rows))
	sql := out.String()

	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO components"))
	assert.Equal(t, 3, strings.Count(sql, "INSERT INTO stock_batches"))
	// El lote de enero de RES-10K se inserta antes que el de febrero (recibe SKU-0001).
	assert.Less(t, strings.Index(sql, "'PROV-2'"), strings.Index(sql, "'PROV-1'"))
	assert.Contains(t, sql, "0.0110")
}
