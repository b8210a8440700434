package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKeys(t *testing.T) {
	assert.Equal(t, "game:game_abc", FormatGameKey("game_abc"))
	assert.Equal(t, "game:game_abc:lock", FormatGameLockKey("game_abc"))
	assert.NotEqual(t, FormatGameKey("x"), FormatGameLockKey("x"))
}
