package ledger

import "github.com/luxfi/payment-engine/internal/money"

// TransactionStatus tracks whether a retained deposit is currently disputed.
type TransactionStatus uint8

const (
	StatusNormal TransactionStatus = iota
	StatusDisputed
)

// Transaction is a retained record of a successfully applied Deposit.
// Withdrawals are never retained: they are not disputable in this ledger.
type Transaction struct {
	Op     Operation
	Status TransactionStatus
}

// ClientStatus is Normal or the terminal Frozen.
type ClientStatus uint8

const (
	ClientNormal ClientStatus = iota
	ClientFrozen
)

// ClientState holds one client's running balances, freeze status and the
// set of deposits it can still reference by tx id. It is never shared
// across goroutines: a single owner applies operations to it and then
// passes it along, value by value, to whichever goroutine owns it next.
type ClientState struct {
	Client       uint16
	Available    money.Amount
	Held         money.Amount
	Status       ClientStatus
	Transactions map[uint32]Transaction
}

// NewClientState returns a fresh, Normal-status state for client.
func NewClientState(client uint16) ClientState {
	return ClientState{
		Client:       client,
		Transactions: make(map[uint32]Transaction),
	}
}

// Total is the client's available plus held balance.
func (c *ClientState) Total() money.Amount {
	return c.Available + c.Held
}

// Clone returns a deep copy: the transaction map is copied so that mutating
// the clone (or the original) never aliases the other. Tests rely on this
// to snapshot a state before applying an operation.
func (c ClientState) Clone() ClientState {
	clone := c
	clone.Transactions = make(map[uint32]Transaction, len(c.Transactions))
	for id, tx := range c.Transactions {
		clone.Transactions[id] = tx
	}
	return clone
}

// Apply runs a single operation through the transaction state machine
// (spec §4.D). A frozen client ignores every subsequent operation.
func (c *ClientState) Apply(op Operation) {
	if c.Status == ClientFrozen {
		return
	}

	switch op.Type {
	case Deposit:
		c.Available += op.Amount
		c.Transactions[op.TxID] = Transaction{Op: op, Status: StatusNormal}

	case Withdrawal:
		if c.Available >= op.Amount {
			c.Available -= op.Amount
		}

	case Dispute:
		tx, ok := c.Transactions[op.TxID]
		if !ok || tx.Status == StatusDisputed {
			return
		}
		c.Available -= tx.Op.Amount
		c.Held += tx.Op.Amount
		tx.Status = StatusDisputed
		c.Transactions[op.TxID] = tx

	case Resolve:
		tx, ok := c.Transactions[op.TxID]
		if !ok || tx.Status != StatusDisputed {
			return
		}
		c.Available += tx.Op.Amount
		c.Held -= tx.Op.Amount
		tx.Status = StatusNormal
		c.Transactions[op.TxID] = tx

	case Chargeback:
		tx, ok := c.Transactions[op.TxID]
		if !ok || tx.Status != StatusDisputed {
			return
		}
		c.Held -= tx.Op.Amount
		c.Status = ClientFrozen
		tx.Status = StatusNormal
		c.Transactions[op.TxID] = tx
	}
}
