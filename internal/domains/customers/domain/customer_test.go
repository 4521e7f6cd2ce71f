package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAddress(t *testing.T) Address {
	t.Helper()
	addr, err := NewAddress("Rua XV de Novembro", "Centro", "Curitiba", "100", "80020-310", "pr")
	require.NoError(t, err)
	return addr
}

func TestNewCustomer_RequiresNameAndPhone(t *testing.T) {
	addr := newTestAddress(t)

	_, err := NewCustomer(0, "  ", addr, "41999990000", "", "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewCustomer(0, "Maria", addr, "", "", "")
	require.ErrorIs(t, err, ErrEmptyPhone)

	c, err := NewCustomer(0, "Maria", addr, "41999990000", "", "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, "Maria", c.Name.String())
	require.True(t, c.Phone2.IsZero())
	require.Equal(t, "PR", c.Address.State())
}

func TestNewAddress_StateLimitedToTwoCharacters(t *testing.T) {
	_, err := NewAddress("", "", "", "", "", "PRR")
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateEmail_ValidatesAndClears(t *testing.T) {
	c, err := NewCustomer(1, "Maria", newTestAddress(t), "41999990000", "4133330000", "maria@example.com")
	require.NoError(t, err)

	require.ErrorIs(t, c.UpdateEmail("not-an-email"), ErrInvalidEmail)
	require.Equal(t, "maria@example.com", c.Email.String())

	require.NoError(t, c.UpdateEmail(""))
	require.True(t, c.Email.IsZero())
}

func TestUpdatePhone_ReplacesBothNumbers(t *testing.T) {
	c, err := NewCustomer(1, "Maria", newTestAddress(t), "41999990000", "4133330000", "")
	require.NoError(t, err)

	require.ErrorIs(t, c.UpdatePhone("", "123"), ErrEmptyPhone)
	require.Equal(t, "41999990000", c.Phone.String())

	require.NoError(t, c.UpdatePhone("41988887777", ""))
	require.Equal(t, "41988887777", c.Phone.String())
	require.True(t, c.Phone2.IsZero())
}

func TestAddServiceOrder_IgnoresUnpersistedAndDuplicates(t *testing.T) {
	c, err := NewCustomer(1, "Maria", newTestAddress(t), "41999990000", "", "")
	require.NoError(t, err)

	c.AddServiceOrder(0)
	require.Empty(t, c.ServiceOrderIDs())

	c.AddServiceOrder(7)
	c.AddServiceOrder(7)
	c.AddServiceOrder(9)
	require.Equal(t, []int64{7, 9}, c.ServiceOrderIDs())

	ids := c.ServiceOrderIDs()
	ids[0] = 100
	require.Equal(t, []int64{7, 9}, c.ServiceOrderIDs())
}

func TestValueObjects_CompareStructurally(t *testing.T) {
	a, err := NewName("Maria")
	require.NoError(t, err)
	b, err := NewName(" Maria ")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, a == b)
}
