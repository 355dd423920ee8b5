package postgres

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ensamblaje-api/pkg/config"
)

func testDBConfig() config.DBConfig {
	return config.DBConfig{
		Host: "db.local", Port: 5432, User: "app", Password: "secreto", DBName: "ensamblaje", SSLMode: "disable",
		MaxConns: 7, MinConns: 2, MaxConnLifetime: 10 * time.Minute, MaxConnIdleTime: time.Minute,
	}
}

func TestNewPoolConfig_TamañoDesdeConfiguracion(t *testing.T) {
	pc, err := newPoolConfig(testDBConfig())
	require.NoError(t, err)

	assert.EqualValues(t, 7, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect, "registro de NUMERIC como decimal")
	assert.Nil(t, pc.ConnConfig.DialFunc, "sin IPv4 forzado se usa el dial de pgx")
}

func TestNewPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	cfg := testDBConfig()
	cfg.DatabaseURL = "postgres://u:p@otro:6543/prod?sslmode=disable"
	cfg.PreferIPv4 = true

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "otro", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	cfg := testDBConfig()
	cfg.DatabaseURL = "postgres://u:p@host:no-es-puerto/db"

	_, err := newPoolConfig(cfg)
	require.Error(t, err)
}

func TestDialIPv4_ConectaPorTCP4(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			_ = c.Close()
		}
	}()

	conn, err := dialIPv4(context.Background(), "tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "tcp", conn.RemoteAddr().Network())
	assert.Equal(t, ln.Addr().String(), conn.RemoteAddr().String())
}
