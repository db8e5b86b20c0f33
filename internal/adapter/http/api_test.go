package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cargotrace-backend/internal/adapter/authority"
	"cargotrace-backend/internal/adapter/repository/mysql"
	"cargotrace-backend/internal/testutil/testdb"
	customsUC "cargotrace-backend/internal/usecase/customs"
	docUC "cargotrace-backend/internal/usecase/document"
	ledgerUC "cargotrace-backend/internal/usecase/ledger"
	loanUC "cargotrace-backend/internal/usecase/loan"
	"cargotrace-backend/internal/usecase/repayment"
	"cargotrace-backend/internal/usecase/transfer"
	"cargotrace-backend/internal/usecase/verification"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trader  = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	officer = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func newAPI(t *testing.T) *echo.Echo {
	t.Helper()
	db := testdb.Open(t)
	tx := mysql.NewGormUoW(db)

	docs := docUC.NewUsecase(mysql.NewDocumentRepository(db), tx, nil)
	customs := customsUC.NewUsecase(mysql.NewCustomsRepository(db), mysql.NewDocumentRepository(db), tx, nil)
	verifier := verification.NewUsecase(customs, authority.NewStaticAuthority())
	loans := loanUC.NewUsecase(mysql.NewLoanRepository(db), mysql.NewApprovalRepository(db), tx)
	repayments := repayment.NewUsecase(mysql.NewLoanRepository(db), mysql.NewPaymentRepository(db), tx, nil)
	ledger := ledgerUC.NewUsecase(mysql.NewLedgerRepository(db), tx, nil)
	transfers := transfer.NewUsecase(mysql.NewTransferRepository(db), nil)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Health:    NewHandler(),
		Documents: NewDocumentHandler(docs),
		Customs:   NewCustomsHandler(customs, verifier),
		Loans:     NewLoanHandler(loans),
		Payments:  NewPaymentHandler(repayments),
		Ledger:    NewLedgerHandler(ledger),
		Transfers: NewTransferHandler(transfers),
	}, nil)
	return e
}

func call(t *testing.T, e *echo.Echo, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller != "" {
		req.Header.Set("Ax-Caller-Id", caller)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// mintedDocument walks a document through customs verification and minting.
func mintedDocument(t *testing.T, e *echo.Echo, ref string, value int64) docUC.DocumentDTO {
	t.Helper()
	rec := call(t, e, stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": ref, "declared_value": value})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	doc := decode[docUC.DocumentDTO](t, rec)
	assert.Equal(t, "pending", doc.Status)

	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings", trader, map[string]any{"external_ref": ref, "declaration_number": "123456789"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	m := decode[customsUC.MappingDTO](t, rec)

	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings/"+m.MappingID+"/check", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "verified", decode[customsUC.MappingDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodGet, "/documents/"+doc.DocumentID, "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "verified", decode[docUC.DocumentDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+doc.DocumentID+"/trigger-lending", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	doc = decode[docUC.DocumentDTO](t, rec)
	require.Equal(t, "nft_minted", doc.Status)
	return doc
}

func TestAPI_FullLifecycle(t *testing.T) {
	e := newAPI(t)
	doc := mintedDocument(t, e, "bafy-bill-of-lading-1", 10_000)
	assert.Equal(t, int64(8_000), doc.MaxLoanAmount)

	rec := call(t, e, stdhttp.MethodPost, "/ledger/credits", officer, map[string]any{"amount": 50_000, "reference": "pool"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	due := time.Now().UTC().Add(30 * 24 * time.Hour)
	rec = call(t, e, stdhttp.MethodPost, "/loans", trader, map[string]any{
		"document_id": doc.DocumentID, "principal": 8_000, "repayment_due_at": due,
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	l := decode[loanUC.LoanDTO](t, rec)
	assert.Equal(t, "pending", l.Status)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/approve", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	l = decode[loanUC.LoanDTO](t, rec)
	assert.Equal(t, "active", l.Status)

	rec = call(t, e, stdhttp.MethodGet, "/ledger/balance", "", nil)
	assert.Equal(t, int64(42_000), decode[ledgerUC.BalanceDTO](t, rec).AvailableBalance)

	rec = call(t, e, stdhttp.MethodGet, "/loans/active", trader, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, l.LoanID, decode[loanUC.LoanDTO](t, rec).LoanID)

	rec = call(t, e, stdhttp.MethodGet, "/loans/decisions/mine", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	decisions := decode[[]loanUC.DecisionDTO](t, rec)
	require.Len(t, decisions, 1)
	assert.Equal(t, l.LoanID, decisions[0].LoanID)
	assert.Equal(t, "approved", decisions[0].Decision)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/payments", officer, map[string]any{"amount": 100})
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code, "only the borrower repays")
	assert.Equal(t, "not_borrower", decode[ErrorResponse](t, rec).Code)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/payments", trader, map[string]any{"amount": 3_000})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(5_000), decode[repayment.ReceiptDTO](t, rec).RunningBalance)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/payments", trader, map[string]any{"amount": 6_000})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)
	assert.Equal(t, "over_payment", decode[ErrorResponse](t, rec).Code)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/payments", trader, map[string]any{"amount": 5_000})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	assert.Equal(t, "repaid", decode[repayment.ReceiptDTO](t, rec).LoanStatus)

	rec = call(t, e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/payments", "", nil)
	assert.Len(t, decode[[]repayment.PaymentDTO](t, rec), 2)

	rec = call(t, e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/balance", "", nil)
	assert.Equal(t, int64(0), decode[repayment.BalanceDTO](t, rec).Remaining)

	rec = call(t, e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/schedule", "", nil)
	sched := decode[repayment.ScheduleDTO](t, rec)
	assert.False(t, sched.Overdue)
	assert.Equal(t, "repaid", sched.Status)

	rec = call(t, e, stdhttp.MethodGet, "/ledger/balance", "", nil)
	assert.Equal(t, int64(50_000), decode[ledgerUC.BalanceDTO](t, rec).AvailableBalance)
}

func TestAPI_ApproveWithoutFundsAnswers202(t *testing.T) {
	e := newAPI(t)
	doc := mintedDocument(t, e, "bafy-bill-of-lading-2", 10_000)

	rec := call(t, e, stdhttp.MethodPost, "/loans", trader, map[string]any{
		"document_id": doc.DocumentID, "principal": 5_000, "repayment_due_at": time.Now().UTC().Add(48 * time.Hour),
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	l := decode[loanUC.LoanDTO](t, rec)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/approve", officer, nil)
	require.Equal(t, stdhttp.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, "transfer_pending", decode[loanUC.LoanDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodPost, "/ledger/credits", officer, map[string]any{"amount": 5_000})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	rec = call(t, e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/retry-disbursement", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "active", decode[loanUC.LoanDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/status", "", nil)
	assert.Equal(t, "active", decode[loanUC.StatusDTO](t, rec).Status)
}

func TestAPI_ErrorMapping(t *testing.T) {
	e := newAPI(t)
	missing := "cccccccccccccccccccccccccccccccc"

	tests := []struct {
		name   string
		method string
		path   string
		caller string
		body   any
		code   int
		errTag string
	}{
		{"caller required on mine", stdhttp.MethodGet, "/loans/mine", "", nil, stdhttp.StatusBadRequest, "missing_caller"},
		{"caller required on mutation", stdhttp.MethodPost, "/documents", "", map[string]any{}, stdhttp.StatusBadRequest, "missing_caller"},
		{"malformed caller", stdhttp.MethodGet, "/loans", "XYZ", nil, stdhttp.StatusBadRequest, "invalid_caller"},
		{"bad path id", stdhttp.MethodGet, "/documents/nope", "", nil, stdhttp.StatusBadRequest, "invalid_param"},
		{"unknown document", stdhttp.MethodGet, "/documents/" + missing, "", nil, stdhttp.StatusNotFound, "document_not_found"},
		{"unknown loan", stdhttp.MethodPost, "/loans/" + missing + "/approve", officer, nil, stdhttp.StatusNotFound, "loan_not_found"},
		{"validator failure", stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": "x", "declared_value": 0}, stdhttp.StatusUnprocessableEntity, "validation_failed"},
		{"bad acid", stdhttp.MethodPost, "/customs/mappings", trader, map[string]any{"external_ref": "x", "declaration_number": "12345"}, stdhttp.StatusUnprocessableEntity, "validation_failed"},
		{"unknown document ref", stdhttp.MethodPost, "/customs/mappings", trader, map[string]any{"external_ref": "x", "declaration_number": "123456789"}, stdhttp.StatusUnprocessableEntity, "unknown_document"},
		{"bad limit", stdhttp.MethodGet, "/ledger/entries?limit=-1", "", nil, stdhttp.StatusBadRequest, "invalid_query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, e, tt.method, tt.path, tt.caller, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, tt.errTag, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestAPI_BrokenBody(t *testing.T) {
	e := newAPI(t)
	req := httptest.NewRequest(stdhttp.MethodPost, "/documents", bytes.NewBufferString(`{"external_ref":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-Caller-Id", trader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", decode[ErrorResponse](t, rec).Code)
}

func TestAPI_CustomsQueriesAndReview(t *testing.T) {
	e := newAPI(t)

	rec := call(t, e, stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": "bafy-unknown", "declared_value": 500})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings", trader, map[string]any{"external_ref": "bafy-unknown", "declaration_number": "111111111"})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	m := decode[customsUC.MappingDTO](t, rec)

	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings", trader, map[string]any{"external_ref": "bafy-unknown", "declaration_number": "123456789"})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_mapping", decode[ErrorResponse](t, rec).Code)

	rec = call(t, e, stdhttp.MethodGet, "/customs/mappings/pending", "", nil)
	assert.Len(t, decode[[]customsUC.MappingDTO](t, rec), 1)

	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings/"+m.MappingID+"/review", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "under_review", decode[customsUC.MappingDTO](t, rec).Status)

	// the static registry does not know this number
	rec = call(t, e, stdhttp.MethodPost, "/customs/mappings/"+m.MappingID+"/check", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	rejected := decode[customsUC.MappingDTO](t, rec)
	assert.Equal(t, "rejected", rejected.Status)

	rec = call(t, e, stdhttp.MethodGet, "/customs/mappings/mine", trader, nil)
	assert.Len(t, decode[[]customsUC.MappingDTO](t, rec), 1)

	rec = call(t, e, stdhttp.MethodGet, "/customs/stats", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	stats := decode[map[string]int64](t, rec)
	assert.Equal(t, int64(1), stats["total"])
	assert.Equal(t, int64(1), stats["rejected"])

	rec = call(t, e, stdhttp.MethodGet, "/declarations/987654321/validation", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["valid"])

	rec = call(t, e, stdhttp.MethodGet, "/declarations/12ab/validation", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["valid"])
}

func TestAPI_DocumentRejectAndBatch(t *testing.T) {
	e := newAPI(t)

	rec := call(t, e, stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": "bafy-a", "declared_value": 100})
	a := decode[docUC.DocumentDTO](t, rec)
	rec = call(t, e, stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": "bafy-b", "declared_value": 100})
	b := decode[docUC.DocumentDTO](t, rec)

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+a.DocumentID+"/reject", officer, map[string]any{"reason": "illegible scan"})
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)
	assert.Equal(t, "not_owner", decode[map[string]any](t, rec)["code"])

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+a.DocumentID+"/reject", trader, map[string]any{"reason": "illegible scan"})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "illegible scan", decode[docUC.DocumentDTO](t, rec).RejectReason)

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+b.DocumentID+"/approve", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "nft_minted", decode[docUC.DocumentDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodPost, "/documents/trigger-lending", officer, map[string]any{"document_ids": []string{a.DocumentID, b.DocumentID}})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	results := decode[struct {
		Results []docUC.TriggerResult `json:"results"`
	}](t, rec).Results
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].Error)
	assert.Equal(t, "nft_minted", results[1].Status)

	rec = call(t, e, stdhttp.MethodGet, "/documents/by-ref/bafy-b", "", nil)
	assert.Equal(t, b.DocumentID, decode[docUC.DocumentDTO](t, rec).DocumentID)

	rec = call(t, e, stdhttp.MethodGet, "/documents/mine", trader, nil)
	assert.Len(t, decode[[]docUC.DocumentDTO](t, rec), 2)

	rec = call(t, e, stdhttp.MethodGet, "/documents?status=rejected", "", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	rejected := decode[[]docUC.DocumentDTO](t, rec)
	require.Len(t, rejected, 1)
	assert.Equal(t, a.DocumentID, rejected[0].DocumentID)

	rec = call(t, e, stdhttp.MethodGet, "/documents?status=archived", "", nil)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_status", decode[map[string]any](t, rec)["code"])
}

func TestAPI_DocumentVerifyThenMint(t *testing.T) {
	e := newAPI(t)

	rec := call(t, e, stdhttp.MethodPost, "/documents", trader, map[string]any{"external_ref": "bafy-c", "declared_value": 100})
	d := decode[docUC.DocumentDTO](t, rec)

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+d.DocumentID+"/mint", officer, nil)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decode[map[string]any](t, rec)["code"])

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+d.DocumentID+"/verify", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "verified", decode[docUC.DocumentDTO](t, rec).Status)

	rec = call(t, e, stdhttp.MethodPost, "/documents/"+d.DocumentID+"/mint", officer, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "nft_minted", decode[docUC.DocumentDTO](t, rec).Status)
}

func TestAPI_Transfers(t *testing.T) {
	e := newAPI(t)
	ev := map[string]any{
		"network":      "sepolia",
		"contract":     "0x1111111111111111111111111111111111111111",
		"tx_hash":      "0x" + string(bytes.Repeat([]byte("f"), 64)),
		"log_index":    2,
		"block_number": 99,
		"token_id":     "12",
		"from":         "0x0000000000000000000000000000000000000000",
		"to":           "0x2222222222222222222222222222222222222222",
	}

	rec := call(t, e, stdhttp.MethodPost, "/transfers", officer, ev)
	assert.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	rec = call(t, e, stdhttp.MethodPost, "/transfers", officer, ev)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	ev["tx_hash"] = "0x1234"
	rec = call(t, e, stdhttp.MethodPost, "/transfers", officer, ev)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	rec = call(t, e, stdhttp.MethodGet, "/transfers?token_id=12", "", nil)
	assert.Len(t, decode[[]transfer.EventDTO](t, rec), 1)
	rec = call(t, e, stdhttp.MethodGet, "/transfers?limit=5", "", nil)
	assert.Len(t, decode[[]transfer.EventDTO](t, rec), 1)
}
