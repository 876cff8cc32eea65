package utils_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, utils.CheckPasswordHash("correct horse", hash))
	assert.False(t, utils.CheckPasswordHash("battery staple", hash))
}

func TestPasswordHashRejectsOverlongInput(t *testing.T) {
	_, err := utils.HashPassword(strings.Repeat("x", 73))

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCheckPasswordHashEmptyHash(t *testing.T) {
	assert.False(t, utils.CheckPasswordHash("", ""))
}
