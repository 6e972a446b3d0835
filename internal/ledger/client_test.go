package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/payment-engine/internal/money"
)

func amt(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.Parse(s)
	require.NoError(t, err)
	return a
}

func deposit(client uint16, tx uint32, amount string, t *testing.T) Operation {
	return Operation{Type: Deposit, Client: client, TxID: tx, Amount: amt(t, amount)}
}

func withdrawal(client uint16, tx uint32, amount string, t *testing.T) Operation {
	return Operation{Type: Withdrawal, Client: client, TxID: tx, Amount: amt(t, amount)}
}

func dispute(client uint16, tx uint32) Operation {
	return Operation{Type: Dispute, Client: client, TxID: tx}
}

func resolve(client uint16, tx uint32) Operation {
	return Operation{Type: Resolve, Client: client, TxID: tx}
}

func chargeback(client uint16, tx uint32) Operation {
	return Operation{Type: Chargeback, Client: client, TxID: tx}
}

func frozenAccount(t *testing.T) ClientState {
	c := NewClientState(0)
	for _, op := range []Operation{
		deposit(0, 1, "10", t),
		deposit(0, 2, "10", t),
		withdrawal(0, 3, "5", t),
		dispute(0, 2),
		chargeback(0, 2),
	} {
		c.Apply(op)
	}
	return c
}

func TestFrozenIgnoresOperations(t *testing.T) {
	frozen := frozenAccount(t)
	require.Equal(t, ClientFrozen, frozen.Status)
	before := frozen.Clone()

	frozen.Apply(deposit(0, 4, "10", t))
	require.Equal(t, before, frozen)

	frozen.Apply(withdrawal(0, 5, "5", t))
	require.Equal(t, before, frozen)

	frozen.Apply(dispute(0, 1))
	require.Equal(t, before, frozen)

	frozen.Apply(resolve(0, 2))
	require.Equal(t, before, frozen)
}

func TestCantWithdrawMoreThanAvailable(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	client.Apply(deposit(0, 2, "25", t))

	before := client.Clone()
	client.Apply(withdrawal(0, 3, "51", t))
	require.Equal(t, before, client)

	client.Apply(withdrawal(0, 3, "50", t))
	require.Equal(t, money.Amount(0), client.Available)
}

func TestCanOnlyDisputeExistingTransactions(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	before := client.Clone()
	client.Apply(dispute(0, 2))
	require.Equal(t, before, client)
}

func TestResolvingIsInverseOfDispute(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	before := client.Clone()
	client.Apply(dispute(0, 1))
	require.NotEqual(t, before, client)
	client.Apply(resolve(0, 1))
	require.Equal(t, before, client)
}

func TestCanOnlyResolveDisputes(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	before := client.Clone()
	client.Apply(resolve(0, 2))
	require.Equal(t, before, client)
}

func TestDisputeCanOnlyBeAppliedOnce(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	client.Apply(dispute(0, 1))
	before := client.Clone()
	client.Apply(dispute(0, 1))
	require.Equal(t, before, client)
}

func TestCanOnlyChargebackDisputes(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "25", t))
	before := client.Clone()
	client.Apply(chargeback(0, 2))
	require.Equal(t, before, client)
}

func TestDisputeCanDriveAvailableNegative(t *testing.T) {
	client := NewClientState(0)
	client.Apply(deposit(0, 1, "10.0", t))
	client.Apply(withdrawal(0, 2, "10.0", t))
	client.Apply(dispute(0, 1))

	require.Equal(t, "-10.0", client.Available.String())
	require.Equal(t, "10.0", client.Held.String())
}
