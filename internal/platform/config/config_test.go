package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TOKENHOME_ADDR", "")
		t.Setenv("TOKENHOME_ADMIN_TOKEN", "")
		t.Setenv("TOKENHOME_KAFKA_BROKERS", "")

		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Empty(t, cfg.AdminToken, "no baked-in admin token; unset must disable the admin surface")
		assert.Equal(t, "tokenhome.observations", cfg.KafkaTopic)
		assert.Empty(t, cfg.KafkaBrokers)
	})

	t.Run("broker list is split and trimmed", func(t *testing.T) {
		t.Setenv("TOKENHOME_KAFKA_BROKERS", "b1:9092, b2:9092 ,,")

		cfg := FromEnv()
		assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	})
}
