package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Desayunos":           "desayunos",
		"Comidas & Cenas":     "comidas--cenas",
		"  Bebidas  Frías ":   "bebidas-fras",
		"Postres\tcaseros":    "postres-caseros",
		"Menú del día 2024!":  "men-del-da-2024",
		"already-a-slug":      "already-a-slug",
		"¿?¡!":                "",
	}

	for label, want := range tests {
		assert.Equal(t, want, Slugify(label), "label %q", label)
	}
}

func TestIsSettingKey(t *testing.T) {
	for _, key := range SettingKeys {
		assert.True(t, IsSettingKey(key))
	}
	assert.False(t, IsSettingKey("instagram"))
	assert.False(t, IsSettingKey(""))
}
