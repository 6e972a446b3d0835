// Package ledger implements the transaction state machine: decoding raw CSV
// rows into typed Operations and applying them to per-client ledger state.
package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/payment-engine/internal/money"
)

// OperationType is the closed set of row kinds the ledger understands.
type OperationType uint8

const (
	Deposit OperationType = iota
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

func (t OperationType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

func parseOperationType(s string) (OperationType, error) {
	switch s {
	case "deposit":
		return Deposit, nil
	case "withdrawal":
		return Withdrawal, nil
	case "dispute":
		return Dispute, nil
	case "resolve":
		return Resolve, nil
	case "chargeback":
		return Chargeback, nil
	default:
		return 0, fmt.Errorf("ledger: unknown operation type %q", s)
	}
}

// hasAmount reports whether this operation type must carry an Amount field
// on the wire. Dispute/Resolve/Chargeback reference a prior deposit by tx id
// and need no amount of their own.
func (t OperationType) hasAmount() bool {
	return t == Deposit || t == Withdrawal
}

// Operation is an immutable row of the input stream: one deposit,
// withdrawal, dispute, resolve or chargeback. For the reference types the
// Amount field is zero unless the row carries one, and is never consulted.
type Operation struct {
	Type   OperationType
	Client uint16
	TxID   uint32
	Amount money.Amount
}

// DecodeRecord turns a raw CSV record into an Operation. Each field is
// trimmed of leading/trailing ASCII whitespace. The amount column may be
// omitted entirely (a 3-field record) or present but empty, for Dispute,
// Resolve and Chargeback rows only; Deposit and Withdrawal rows must carry
// all 4 fields with a non-empty amount. A non-empty amount is decoded for
// every type.
func DecodeRecord(record []string) (Operation, error) {
	if len(record) != 3 && len(record) != 4 {
		return Operation{}, fmt.Errorf("ledger: expected 3 or 4 fields, got %d", len(record))
	}

	typeField := strings.TrimSpace(record[0])
	clientField := strings.TrimSpace(record[1])
	txField := strings.TrimSpace(record[2])

	var amountField string
	if len(record) == 4 {
		amountField = strings.TrimSpace(record[3])
	}

	opType, err := parseOperationType(typeField)
	if err != nil {
		return Operation{}, err
	}

	client, err := strconv.ParseUint(clientField, 10, 16)
	if err != nil {
		return Operation{}, fmt.Errorf("ledger: invalid client id %q: %w", clientField, err)
	}

	txID, err := strconv.ParseUint(txField, 10, 32)
	if err != nil {
		return Operation{}, fmt.Errorf("ledger: invalid tx id %q: %w", txField, err)
	}

	var amount money.Amount
	if amountField != "" {
		amount, err = money.Parse(amountField)
		if err != nil {
			return Operation{}, fmt.Errorf("ledger: invalid amount %q: %w", amountField, err)
		}
	} else if opType.hasAmount() {
		return Operation{}, fmt.Errorf("ledger: %s row missing amount", opType)
	}

	return Operation{
		Type:   opType,
		Client: uint16(client),
		TxID:   uint32(txID),
		Amount: amount,
	}, nil
}
