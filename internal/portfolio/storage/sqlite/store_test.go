package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/portfolio/filter"
	"github.com/launchfolio/launchfolio/internal/portfolio/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func seedTransactions(t *testing.T, store *Store, userID string, count int) []portfolio.Transaction {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	transactions := make([]portfolio.Transaction, 0, count)
	for i := range count {
		transaction := portfolio.Transaction{
			ID:         fmt.Sprintf("txn-%03d", i),
			UserID:     userID,
			ProposalID: "prop-1",
			Type:       portfolio.TransactionInvestment,
			Amount:     int64(i+1) * 100_00,
			Shares:     int64(i + 1),
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.AppendTransaction(ctx, transaction); err != nil {
			t.Fatalf("AppendTransaction returned error: %v", err)
		}
		transactions = append(transactions, transaction)
	}
	return transactions
}

func TestStoreAppendAndListAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seeded := seedTransactions(t, store, "user-1", 3)

	listed, err := store.ListAllTransactions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListAllTransactions returned error: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d transactions, want 3", len(listed))
	}
	for i, transaction := range listed {
		if transaction != seeded[i] {
			t.Errorf("transaction %d = %+v, want %+v", i, transaction, seeded[i])
		}
	}
}

func TestStoreAppendRejectsEmptyID(t *testing.T) {
	store := newTestStore(t)
	err := store.AppendTransaction(context.Background(), portfolio.Transaction{UserID: "user-1"})
	if err == nil {
		t.Fatal("AppendTransaction accepted an empty id")
	}
}

func TestStoreListNewestFirstByDefault(t *testing.T) {
	store := newTestStore(t)
	seedTransactions(t, store, "user-1", 3)

	page, err := store.ListTransactions(context.Background(), "user-1", storage.TransactionQuery{PageSize: 10})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(page.Transactions) != 3 {
		t.Fatalf("listed %d transactions, want 3", len(page.Transactions))
	}
	if page.Transactions[0].ID != "txn-002" || page.Transactions[2].ID != "txn-000" {
		t.Errorf("unexpected order: %q first, %q last", page.Transactions[0].ID, page.Transactions[2].ID)
	}
	if page.NextPageToken != "" {
		t.Errorf("NextPageToken = %q, want empty", page.NextPageToken)
	}
}

func TestStoreListPagination(t *testing.T) {
	store := newTestStore(t)
	seedTransactions(t, store, "user-1", 5)
	ctx := context.Background()

	first, err := store.ListTransactions(ctx, "user-1", storage.TransactionQuery{PageSize: 2})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(first.Transactions) != 2 || first.NextPageToken != "2" {
		t.Fatalf("first page = %d entries token %q, want 2 entries token \"2\"", len(first.Transactions), first.NextPageToken)
	}

	second, err := store.ListTransactions(ctx, "user-1", storage.TransactionQuery{PageSize: 2, PageToken: first.NextPageToken})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(second.Transactions) != 2 || second.NextPageToken != "4" {
		t.Fatalf("second page = %d entries token %q, want 2 entries token \"4\"", len(second.Transactions), second.NextPageToken)
	}
	if second.Transactions[0].ID != "txn-002" {
		t.Errorf("second page starts at %q, want txn-002", second.Transactions[0].ID)
	}

	last, err := store.ListTransactions(ctx, "user-1", storage.TransactionQuery{PageSize: 2, PageToken: second.NextPageToken})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(last.Transactions) != 1 || last.NextPageToken != "" {
		t.Errorf("last page = %d entries token %q, want 1 entry and no token", len(last.Transactions), last.NextPageToken)
	}
}

func TestStoreListInvalidPageToken(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ListTransactions(context.Background(), "user-1", storage.TransactionQuery{PageSize: 2, PageToken: "not-a-number"})
	if err == nil {
		t.Fatal("ListTransactions accepted an invalid page token")
	}
}

func TestStoreListWithCondition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedTransactions(t, store, "user-1", 3)
	refund := portfolio.Transaction{
		ID:         "txn-refund",
		UserID:     "user-1",
		ProposalID: "prop-1",
		Type:       portfolio.TransactionRefund,
		Amount:     100_00,
		OccurredAt: time.Date(2026, time.May, 2, 12, 0, 0, 0, time.UTC),
	}
	if err := store.AppendTransaction(ctx, refund); err != nil {
		t.Fatalf("AppendTransaction returned error: %v", err)
	}

	condition, err := filter.ParseTransactionFilter(`type = "refund"`)
	if err != nil {
		t.Fatalf("ParseTransactionFilter returned error: %v", err)
	}
	page, err := store.ListTransactions(ctx, "user-1", storage.TransactionQuery{PageSize: 10, Condition: condition})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].ID != "txn-refund" {
		t.Fatalf("filtered page = %+v, want only txn-refund", page.Transactions)
	}
}

func TestStoreListCustomOrder(t *testing.T) {
	store := newTestStore(t)
	seedTransactions(t, store, "user-1", 3)

	page, err := store.ListTransactions(context.Background(), "user-1", storage.TransactionQuery{
		PageSize: 10,
		OrderBy:  "amount ASC, id ASC",
	})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if page.Transactions[0].Amount != 100_00 || page.Transactions[2].Amount != 300_00 {
		t.Errorf("unexpected amount order: %d first, %d last", page.Transactions[0].Amount, page.Transactions[2].Amount)
	}
}

func TestStoreListIsolatesUsers(t *testing.T) {
	store := newTestStore(t)
	seedTransactions(t, store, "user-1", 2)
	other := portfolio.Transaction{
		ID:         "txn-other",
		UserID:     "user-2",
		ProposalID: "prop-1",
		Type:       portfolio.TransactionInvestment,
		Amount:     100_00,
		OccurredAt: time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.AppendTransaction(context.Background(), other); err != nil {
		t.Fatalf("AppendTransaction returned error: %v", err)
	}

	page, err := store.ListTransactions(context.Background(), "user-2", storage.TransactionQuery{PageSize: 10})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(page.Transactions) != 1 || page.Transactions[0].ID != "txn-other" {
		t.Errorf("user-2 page = %+v, want only txn-other", page.Transactions)
	}
}
