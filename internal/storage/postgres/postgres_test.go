package postgres

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/warstage/samurai-practice/internal/config"
)

func TestInit_Unreachable(t *testing.T) {
	b := New(config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "u",
		Password: "p",
		Database: "samurai",
	}, zerolog.New(io.Discard))

	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}
