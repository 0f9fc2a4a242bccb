package mirror

import (
	"math"
	"testing"
	"time"
)

func testSource(payerID int64, amount float64) Source {
	return Source{
		ExpenseID:   42,
		GroupID:     7,
		PayerID:     payerID,
		Amount:      amount,
		Description: "Dinner",
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestForExpensePayer(t *testing.T) {
	// 900 split equally among 3 members, payer included.
	shares := map[int64]float64{1: 300, 2: 300, 3: 300}

	entry := ForExpense(1, testSource(1, 900), shares)
	if entry == nil {
		t.Fatal("ForExpense() = nil for the payer")
	}

	if math.Abs(entry.Amount-900) > 0.01 {
		t.Errorf("payer mirror amount = %v, want 900", entry.Amount)
	}
	if math.Abs(entry.RecoverableAmount-600) > 0.01 {
		t.Errorf("payer recoverable = %v, want 600", entry.RecoverableAmount)
	}
	if entry.Category != CategoryShared {
		t.Errorf("payer mirror category = %q, want %q", entry.Category, CategoryShared)
	}
	if !entry.IsShared {
		t.Error("payer mirror not flagged as shared")
	}
	if entry.ExpenseID != 42 || entry.GroupID != 7 {
		t.Errorf("back-reference = (%d, %d), want (42, 7)", entry.ExpenseID, entry.GroupID)
	}
}

func TestForExpenseConsumer(t *testing.T) {
	shares := map[int64]float64{1: 300, 2: 300, 3: 300}

	entry := ForExpense(2, testSource(1, 900), shares)
	if entry == nil {
		t.Fatal("ForExpense() = nil for a consuming member")
	}

	if math.Abs(entry.Amount-300) > 0.01 {
		t.Errorf("consumer mirror amount = %v, want 300", entry.Amount)
	}
	if entry.RecoverableAmount != 0 {
		t.Errorf("consumer recoverable = %v, want 0", entry.RecoverableAmount)
	}
}

func TestForExpenseUninvolved(t *testing.T) {
	shares := map[int64]float64{1: 50, 2: 50}

	if entry := ForExpense(3, testSource(1, 100), shares); entry != nil {
		t.Errorf("ForExpense() = %+v for an uninvolved member, want nil", entry)
	}
}

func TestForExpensePayerNotConsuming(t *testing.T) {
	shares := map[int64]float64{2: 60, 3: 40}

	entry := ForExpense(1, testSource(1, 100), shares)
	if entry == nil {
		t.Fatal("ForExpense() = nil for a non-consuming payer")
	}
	if math.Abs(entry.RecoverableAmount-100) > 0.01 {
		t.Errorf("recoverable = %v, want the full 100", entry.RecoverableAmount)
	}
}

func TestForSettlement(t *testing.T) {
	entries := ForSettlement(2, testSource(1, 150))
	if len(entries) != 2 {
		t.Fatalf("ForSettlement() returned %d entries, want 2", len(entries))
	}

	payer, receiver := entries[0], entries[1]

	if payer.UserID != 1 || math.Abs(payer.Amount-150) > 0.01 {
		t.Errorf("payer entry = user %d amount %v, want user 1 amount 150", payer.UserID, payer.Amount)
	}
	if payer.Category != CategoryShared {
		t.Errorf("payer category = %q, want %q", payer.Category, CategoryShared)
	}

	if receiver.UserID != 2 || math.Abs(receiver.Amount+150) > 0.01 {
		t.Errorf("receiver entry = user %d amount %v, want user 2 amount -150", receiver.UserID, receiver.Amount)
	}
	if receiver.Category != CategoryIncome {
		t.Errorf("receiver category = %q, want %q", receiver.Category, CategoryIncome)
	}
	if receiver.RecoverableAmount != 0 {
		t.Errorf("receiver recoverable = %v, want 0", receiver.RecoverableAmount)
	}
}
