package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	appbanking "github.com/billbook/backend/internal/application/banking"
	appidentity "github.com/billbook/backend/internal/application/identity"
	appinvoicing "github.com/billbook/backend/internal/application/invoicing"
	appledger "github.com/billbook/backend/internal/application/ledger"
	appsettings "github.com/billbook/backend/internal/application/settings"
	appstaff "github.com/billbook/backend/internal/application/staff"
	apptreasury "github.com/billbook/backend/internal/application/treasury"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/settings"
	"github.com/billbook/backend/internal/infrastructure/auth"
	"github.com/billbook/backend/internal/infrastructure/cache"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/infrastructure/event"
	"github.com/billbook/backend/internal/infrastructure/persistence"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/billbook/backend/internal/interfaces/http/middleware"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingMailer keeps every sent mail so tests can read reset codes
type recordingMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fails error
}

type sentMail struct {
	Subject string
	Body    string
	To      []string
}

func (m *recordingMailer) Send(_ context.Context, subject, body string, to ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails != nil {
		return m.fails
	}
	m.sent = append(m.sent, sentMail{Subject: subject, Body: body, To: to})
	return nil
}

var otpPattern = regexp.MustCompile(`code is (\d{6})`)

func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	match := otpPattern.FindStringSubmatch(m.sent[len(m.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

// stubPrinter returns a fixed document naming the invoice
type stubPrinter struct{}

func (stubPrinter) Print(_ context.Context, inv *invoicing.Invoice, _ *settings.Setting) ([]byte, error) {
	return []byte("%PDF-1.4 " + inv.InvoiceNumber), nil
}

// testEnv is the full HTTP stack over an in-memory sqlite database
type testEnv struct {
	engine *gin.Engine
	router *router.Router
	db     *gorm.DB
	jwt    *auth.JWTService
	mailer *recordingMailer
}

type envOptions struct {
	printer appinvoicing.Printer
	now     func() time.Time
}

type envOption func(*envOptions)

func withoutPrinter() envOption {
	return func(o *envOptions) { o.printer = nil }
}

func withClock(now func() time.Time) envOption {
	return func(o *envOptions) { o.now = now }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	o := envOptions{printer: stubPrinter{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-32-characters!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "billbook-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	mailer := &recordingMailer{}

	balanceCache := cache.NewInMemoryBalanceCache(time.Minute)
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appledger.NewCacheInvalidationHandler(balanceCache, log))
	require.NoError(t, bus.Start(context.Background()))

	invoices := persistence.NewGormInvoiceRepository(db)
	settingsRepo := persistence.NewGormSettingRepository(db)
	companyBills := persistence.NewGormCompanyBillRepository(db)

	handlers := Handlers{
		System: NewSystemHandler("billbook", "test", map[string]HealthCheck{
			"database": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		}),
		Auth: NewAuthHandler(appidentity.NewAuthService(
			persistence.NewGormUserRepository(db),
			persistence.NewGormOTPRepository(db),
			jwtService, blacklist, mailer, bus, log,
		)),
		Invoice: NewInvoiceHandler(appinvoicing.NewInvoiceService(
			invoices,
			persistence.NewGormNumberAllocator(db, false),
			settingsRepo, bus, o.printer,
			appinvoicing.InvoiceServiceConfig{Pricer: invoicing.NewPricer(), Now: o.now},
			log,
		)),
		Balance:  NewBalanceHandler(appledger.NewBalanceService(invoices, companyBills, balanceCache, log)),
		Settings: NewSettingsHandler(appsettings.NewService(settingsRepo, log)),
		Banking: NewBankingHandler(appbanking.NewTransactionService(appbanking.Repositories{
			CompanyBills:    companyBills,
			Buyers:          persistence.NewGormBuyerTransactionRepository(db),
			Salaries:        persistence.NewGormSalaryPaymentRepository(db),
			Others:          persistence.NewGormOtherTransactionRepository(db),
			BankingDeposits: persistence.NewGormBankingDepositRepository(db),
			Banks:           persistence.NewGormBankRepository(db),
			Partners:        persistence.NewGormPartnerRepository(db),
			Invoices:        invoices,
		}, bus, log)),
		Treasury: NewTreasuryHandler(apptreasury.NewService(
			persistence.NewGormBankAccountRepository(db),
			persistence.NewGormCashEntryRepository(db),
			log,
		)),
		Employee: NewEmployeeHandler(appstaff.NewEmployeeService(persistence.NewGormEmployeeRepository(db), log)),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	r := router.NewRouter(engine)
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})
	handlers.Register(r, requireAuth)
	r.Setup()

	return &testEnv{engine: engine, router: r, db: db, jwt: jwtService, mailer: mailer}
}

// do sends a request; body may be a string, []byte or any JSON-encodable value
func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its access token
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":      email,
		"first_name": "Asha",
		"mobile":     "9876543210",
		"password":   "secret123",
		"password2":  "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data appidentity.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.Tokens.Access
}

// decodeData unmarshals the data field of a success envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// decodeError returns the error of a failure envelope
func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	resp := decodeResponse(t, w)
	require.False(t, resp.Success, w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error
}
