package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/wallet-service/internal/adapter/repository/memory"
	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
)

func mustCreate(t *testing.T, store *memory.Store, name, mobile, balance string) domain.Account {
	t.Helper()

	account, err := store.Create(context.Background(), domain.Account{
		Name:         name,
		Mobile:       mobile,
		PasswordHash: "x",
		Balance:      decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("create account %s: %v", mobile, err)
	}
	return account
}

func TestTransferMovesBalanceAndWritesPairedEntries(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "1000.00")
	b := mustCreate(t, store, "B", "1000000002", "1000.00")

	amount := decimal.RequireFromString("1000.00")
	result, err := store.ProcessInternalTransfer(context.Background(), a.ID, b.Mobile, amount)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if result.NewSourceBalance.StringFixed(2) != "0.00" {
		t.Fatalf("expected source balance 0.00, got %s", result.NewSourceBalance.StringFixed(2))
	}

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	bAfter, _ := store.GetByID(context.Background(), b.ID)
	if aAfter.Balance.StringFixed(2) != "0.00" {
		t.Fatalf("expected A balance 0.00, got %s", aAfter.Balance.StringFixed(2))
	}
	if bAfter.Balance.StringFixed(2) != "2000.00" {
		t.Fatalf("expected B balance 2000.00, got %s", bAfter.Balance.StringFixed(2))
	}

	aEntries, _ := store.ListByAccount(context.Background(), a.ID)
	bEntries, _ := store.ListByAccount(context.Background(), b.ID)
	if len(aEntries) != 1 || len(bEntries) != 1 {
		t.Fatalf("expected one entry per account, got %d and %d", len(aEntries), len(bEntries))
	}

	if !aEntries[0].Amount.Add(bEntries[0].Amount).IsZero() {
		t.Fatalf("paired entries do not sum to zero: %s and %s", aEntries[0].Amount, bEntries[0].Amount)
	}
	if aEntries[0].CounterpartyMobile != b.Mobile || bEntries[0].CounterpartyMobile != a.Mobile {
		t.Fatal("paired entries do not cross-reference each other's accounts")
	}
	if aEntries[0].Kind != domain.EntryKindInternalTransfer || aEntries[0].Status != domain.EntryStatusCompleted {
		t.Fatalf("unexpected entry kind/status: %s/%s", aEntries[0].Kind, aEntries[0].Status)
	}
}

func TestTransferToUnknownRecipientLeavesStateUntouched(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "1000.00")

	amount := decimal.RequireFromString("250.00")
	for i := 0; i < 3; i++ {
		_, err := store.ProcessInternalTransfer(context.Background(), a.ID, "1999999999", amount)
		if !errors.Is(err, commons.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	}

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	if aAfter.Balance.StringFixed(2) != "1000.00" {
		t.Fatalf("expected balance unchanged at 1000.00, got %s", aAfter.Balance.StringFixed(2))
	}

	entries, _ := store.ListByAccount(context.Background(), a.ID)
	if len(entries) != 0 {
		t.Fatalf("expected no ledger entries after failed transfers, got %d", len(entries))
	}
}

func TestTransferWithInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "100.00")
	b := mustCreate(t, store, "B", "1000000002", "50.00")

	amount := decimal.RequireFromString("150.00")
	for i := 0; i < 3; i++ {
		_, err := store.ProcessInternalTransfer(context.Background(), a.ID, b.Mobile, amount)
		if !errors.Is(err, commons.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
	}

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	bAfter, _ := store.GetByID(context.Background(), b.ID)
	if aAfter.Balance.StringFixed(2) != "100.00" || bAfter.Balance.StringFixed(2) != "50.00" {
		t.Fatalf("expected balances unchanged, got %s and %s",
			aAfter.Balance.StringFixed(2), bAfter.Balance.StringFixed(2))
	}

	aEntries, _ := store.ListByAccount(context.Background(), a.ID)
	bEntries, _ := store.ListByAccount(context.Background(), b.ID)
	if len(aEntries)+len(bEntries) != 0 {
		t.Fatal("expected no ledger entries after failed transfers")
	}
}

func TestSelfTransferRejected(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "1000.00")

	_, err := store.ProcessInternalTransfer(context.Background(), a.ID, a.Mobile, decimal.RequireFromString("10.00"))
	if !errors.Is(err, commons.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	if aAfter.Balance.StringFixed(2) != "1000.00" {
		t.Fatalf("expected balance unchanged, got %s", aAfter.Balance.StringFixed(2))
	}
}

func TestConcurrentDebitsCannotBothSucceed(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "100.00")
	b := mustCreate(t, store, "B", "1000000002", "0.00")

	// Each amount fits individually, but together they exceed the balance.
	amount := decimal.RequireFromString("60.00")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ProcessInternalTransfer(context.Background(), a.ID, b.Mobile, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, commons.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one success and one insufficient-balance failure, got %d and %d",
			successes, insufficient)
	}

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	if aAfter.Balance.StringFixed(2) != "40.00" {
		t.Fatalf("expected final balance 40.00, got %s", aAfter.Balance.StringFixed(2))
	}
}

func TestOpposingConcurrentTransfersComplete(t *testing.T) {
	store := memory.NewStore()
	a := mustCreate(t, store, "A", "1000000001", "500.00")
	b := mustCreate(t, store, "B", "1000000002", "500.00")

	amount := decimal.RequireFromString("1.00")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.ProcessInternalTransfer(context.Background(), a.ID, b.Mobile, amount)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.ProcessInternalTransfer(context.Background(), b.ID, a.Mobile, amount)
		}()
	}
	wg.Wait()

	aAfter, _ := store.GetByID(context.Background(), a.ID)
	bAfter, _ := store.GetByID(context.Background(), b.ID)
	total := aAfter.Balance.Add(bAfter.Balance)
	if total.StringFixed(2) != "1000.00" {
		t.Fatalf("money not conserved: total is %s", total.StringFixed(2))
	}
}

func TestCreateDuplicateMobileRejected(t *testing.T) {
	store := memory.NewStore()
	mustCreate(t, store, "A", "1000000001", "1000.00")

	_, err := store.Create(context.Background(), domain.Account{
		Name:         "B",
		Mobile:       "1000000001",
		PasswordHash: "x",
		Balance:      decimal.Zero,
	})
	if !errors.Is(err, commons.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
}
