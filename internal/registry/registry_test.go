package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/sift/internal/config"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := FromConfig(
		[]config.Category{
			{Name: "Groceries", Patterns: []string{"^WHOLE FOODS", "MARKET"}},
			{Name: "Pharmacy", Patterns: []string{"PHARMACY", "MARKET ST DRUGS"}},
			{Name: "Travel", Patterns: []string{"^AIRLINE"}, Reimbursement: "amount * 0.8"},
		},
		[]config.Category{
			{Name: "Salary", Patterns: []string{"^ACME PAYROLL"}},
		},
	)
	require.NoError(t, err)
	return r
}

func TestFromConfigCompileFailure(t *testing.T) {
	_, err := FromConfig([]config.Category{{Name: "Bad", Patterns: []string{"(["}}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
}

func TestFindRespectsNamespaces(t *testing.T) {
	r := testRegistry(t)

	// Debit namespace sees debit categories only.
	assert.Equal(t, []string{"Groceries"}, r.Find(true, "WHOLE FOODS #10"))
	assert.Empty(t, r.Find(false, "WHOLE FOODS #10"))

	// Credit namespace likewise.
	assert.Equal(t, []string{"Salary"}, r.Find(false, "ACME PAYROLL JAN"))
	assert.Empty(t, r.Find(true, "ACME PAYROLL JAN"))
}

func TestFindReturnsInsertionOrder(t *testing.T) {
	r := testRegistry(t)

	// Matches both Groceries ("MARKET") and Pharmacy ("MARKET ST DRUGS").
	matches := r.Find(true, "MARKET ST DRUGS 42")
	assert.Equal(t, []string{"Groceries", "Pharmacy"}, matches)
}

func TestCreate(t *testing.T) {
	r := testRegistry(t)
	require.False(t, r.Dirty())

	def, err := r.Create(true, "Dining", "^COFFEE SHOP")
	require.NoError(t, err)
	assert.True(t, def.Matches("COFFEE SHOP 123"))
	assert.True(t, r.Dirty())
	assert.Equal(t, []string{"Dining"}, r.Find(true, "COFFEE SHOP 123"))

	// Same name is free in the other namespace.
	_, err = r.Create(false, "Dining", "")
	require.NoError(t, err)

	_, err = r.Create(true, "Dining", "")
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = r.Create(true, "", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAddPattern(t *testing.T) {
	r := testRegistry(t)

	require.NoError(t, r.AddPattern(true, "Groceries", "^TRADER JOE"))
	assert.Equal(t, []string{"Groceries"}, r.Find(true, "TRADER JOES #42"))
	assert.True(t, r.Dirty())

	assert.ErrorIs(t, r.AddPattern(true, "Nope", "^X"), ErrCategoryNotFound)
}

func TestAddPatternRollsBackOnBadPattern(t *testing.T) {
	r := testRegistry(t)

	require.Error(t, r.AddPattern(true, "Groceries", "(["))

	def, ok := r.Get(true, "Groceries")
	require.True(t, ok)
	assert.Equal(t, []string{"^WHOLE FOODS", "MARKET"}, def.Patterns)
	assert.True(t, def.Matches("WHOLE FOODS #10"))
}

func TestSetReimbursement(t *testing.T) {
	r := testRegistry(t)

	require.NoError(t, r.SetReimbursement(true, "Groceries", "amount / 2"))
	def, ok := r.Get(true, "Groceries")
	require.True(t, ok)
	assert.Equal(t, "amount / 2", def.Reimbursement)
	assert.True(t, r.Dirty())

	assert.ErrorIs(t, r.SetReimbursement(false, "Groceries", "amount"), ErrCategoryNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Create(true, "Dining", "^COFFEE SHOP")
	require.NoError(t, err)

	debits, credits := r.Snapshot()
	require.Len(t, debits, 4)
	assert.Equal(t, "Dining", debits[3].Name)
	assert.Equal(t, []string{"^COFFEE SHOP"}, debits[3].Patterns)
	assert.Equal(t, "amount * 0.8", debits[2].Reimbursement)
	require.Len(t, credits, 1)

	reloaded, err := FromConfig(debits, credits)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dining"}, reloaded.Find(true, "COFFEE SHOP 123"))
	assert.False(t, reloaded.Dirty())
}
