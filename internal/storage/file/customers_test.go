package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func TestCustomerStore_LoadMissing(t *testing.T) {
	store := NewCustomerStore(filepath.Join(t.TempDir(), "customers.txt"), nil)

	customers, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCustomerStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.txt")
	store := NewCustomerStore(path, nil)

	require.NoError(t, store.Save([]*domain.Customer{
		domain.NewGuest(),
		domain.NewCustomer(1002, "Aina", "aina@gmail.com", "secret1"),
		domain.NewCustomer(1003, "Brian", "brian@yahoo.com", "p,ss,wd"),
	}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2, "guest is never persisted")
	assert.Equal(t, 1002, loaded[0].ID)
	assert.Equal(t, "Aina", loaded[0].Name)
	assert.Equal(t, "p,ss,wd", loaded[1].Password)
	assert.False(t, loaded[1].IsGuest)
	assert.NotNil(t, loaded[1].Cart)
}

func TestCustomerStore_LoadSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.txt")
	content := "1002, Aina, aina@gmail.com, secret1\nbroken line\nx,Bad,bad@gmail.com,pw\n0,Guest,guest@system,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewCustomerStore(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "aina@gmail.com", loaded[0].Email)
	assert.Equal(t, "secret1", loaded[0].Password)
}
