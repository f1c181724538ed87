package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow/internal/domain/entity"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(fmt.Errorf("add line: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, isForeignKeyViolation(errors.New("23503")))
}

func TestPageArgs(t *testing.T) {
	limit, offset := pageArgs(0, 5)
	assert.Nil(t, limit)
	assert.Equal(t, 5, offset)

	limit, _ = pageArgs(20, 0)
	assert.Equal(t, 20, limit)
}

func TestStatesArg(t *testing.T) {
	assert.Nil(t, statesArg[entity.State](nil))
	assert.Equal(t, []string{"draft", "approved"}, statesArg([]entity.State{entity.StateDraft, entity.StateApproved}))
}

func TestMigrations_VersionesOrdenadasYUnicas(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for _, m := range migrations {
		assert.False(t, seen[m.Version], "versión repetida %s", m.Version)
		assert.Greater(t, m.Version, prev, "las versiones deben ir en orden")
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Up)
		seen[m.Version] = true
		prev = m.Version
	}
}
