package rest_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/auth"
	authPostgres "github.com/frahmantamala/crm-management/internal/auth/postgres"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/customer"
	customerPostgres "github.com/frahmantamala/crm-management/internal/customer/postgres"
	"github.com/frahmantamala/crm-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/crm-management/internal/permission/postgres"
	"github.com/frahmantamala/crm-management/internal/role"
	rolePostgres "github.com/frahmantamala/crm-management/internal/role/postgres"
	"github.com/frahmantamala/crm-management/internal/storage"
	"github.com/frahmantamala/crm-management/internal/transport/rest"
	"github.com/frahmantamala/crm-management/internal/user"
	userPostgres "github.com/frahmantamala/crm-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

type envelope struct {
	Success bool            `json:"success"`
	Message interface{}     `json:"message"`
	Result  json.RawMessage `json:"result"`
}

var _ = Describe("Router", func() {
	var (
		store   *datastore.Store
		router  *chi.Mux
		userSvc *user.Service
	)

	do := func(method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
			_ = json.Unmarshal(w.Body.Bytes(), &env)
		}
		return w, env
	}

	register := func(name, email string) {
		body := `{"name":"` + name + `","email":"` + email + `","password":"secret","password_confirmation":"secret"}`
		w, _ := do(http.MethodPost, "/api/v1/auth/register", "", body)
		Expect(w.Code).To(Equal(http.StatusCreated))
	}

	login := func(email string) string {
		w, env := do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"secret"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp auth.LoginResponse
		Expect(json.Unmarshal(env.Result, &resp)).To(Succeed())
		Expect(resp.Token).NotTo(BeEmpty())
		return resp.Token
	}

	BeforeEach(func() {
		var err error
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		store, err = datastore.Open(internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"})
		Expect(err).NotTo(HaveOccurred())
		Expect(datastore.Migrate(store.Gorm)).To(Succeed())

		hasher := auth.NewBcryptHasher(bcrypt.MinCost)
		bus := events.NewEventBus(lg)

		roleSvc := role.NewService(rolePostgres.NewRoleRepository(store.Gorm), lg)
		role.NewEventHandler(roleSvc, lg).RegisterEventHandlers(bus)
		permissionSvc := permission.NewService(permissionPostgres.NewPermissionRepository(store.Gorm), lg)
		userSvc = user.NewService(userPostgres.NewUserRepository(store.Gorm), hasher, roleSvc, bus, lg)
		customerSvc := customer.NewService(customerPostgres.NewCustomerRepository(store.Gorm), storage.NewMemoryStore(), 2048*1024, lg)
		authSvc := auth.NewService(authPostgres.NewRepository(store.SQL), userSvc, auth.NewJWTTokenGenerator("router-test-secret", time.Hour), hasher, lg)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Routes{
			Health:      rest.NewHealthHandler(store.SQL, "sqlite", lg),
			Auth:        auth.NewHandler(authSvc),
			RBAC:        auth.NewRBACAuthorization(auth.NewRoleChecker(), lg),
			Users:       user.NewHandler(userSvc),
			Customers:   customer.NewHandler(customerSvc),
			Roles:       role.NewHandler(roleSvc),
			Permissions: permission.NewHandler(permissionSvc),
			MetricsPath: "/metrics",
		}, lg)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("answers ping and health", func() {
		w, _ := do(http.MethodGet, "/api/v1/ping", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w, _ = do(http.MethodGet, "/api/v1/health", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var health rest.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &health)).To(Succeed())
		Expect(health.Status).To(Equal(rest.HealthHealthy))
		Expect(health.Components).To(HaveKey("sqlite"))
	})

	It("exposes prometheus metrics", func() {
		w, _ := do(http.MethodGet, "/metrics", "", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("renders unknown routes as a failed envelope", func() {
		w, env := do(http.MethodGet, "/api/v1/nowhere", "", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(Equal("Resource not found"))
	})

	It("rejects protected routes without a token", func() {
		w, env := do(http.MethodGet, "/api/v1/customers", "", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Unauthenticated."))
	})

	It("lets a member reach customers but not admin routes", func() {
		register("alice", "alice@example.com")
		token := login("alice@example.com")

		w, env := do(http.MethodGet, "/api/v1/customers", token, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Customers Not Found"))

		w, env = do(http.MethodGet, "/api/v1/user/profile", token, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w, env = do(http.MethodGet, "/api/v1/users", token, "")
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("User does not have the right roles."))

		w, _ = do(http.MethodGet, "/api/v1/roles", token, "")
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("opens admin routes once the user is promoted", func() {
		register("alice", "alice@example.com")
		users, err := userSvc.List(context.Background(), pagination.Params{Page: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(userSvc.MakeAdmin(context.Background(), users.Data[0].ID)).To(Succeed())

		token := login("alice@example.com")

		w, env := do(http.MethodGet, "/api/v1/users", token, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Users List"))

		w, env = do(http.MethodGet, "/api/v1/roles", token, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Result)).To(ContainSubstring(`"admin"`))
	})

	It("revokes every token of the user on logout", func() {
		register("alice", "alice@example.com")
		token := login("alice@example.com")
		other := login("alice@example.com")

		w, env := do(http.MethodPost, "/api/v1/auth/logout", token, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Logged out successfully"))

		for _, t := range []string{token, other} {
			w, _ = do(http.MethodGet, "/api/v1/user/profile", t, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		}
	})
})
