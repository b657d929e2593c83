package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		repo    *mockRepository
		handler *Handler
		router  chi.Router
	)

	send := func(method, target, token, body string) (int, transport.Envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env transport.Envelope
		gomega.Expect(json.NewDecoder(w.Body).Decode(&env)).To(gomega.Succeed())
		return w.Code, env
	}

	login := func(email string) string {
		code, env := send(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"correct_password"}`)
		gomega.Expect(code).To(gomega.Equal(http.StatusOK))
		result := env.Result.(map[string]interface{})
		return result["token"].(string)
	}

	ginkgo.BeforeEach(func() {
		hasher := NewBcryptHasher(bcrypt.MinCost)
		repo = newMockRepository(hasher)
		service := NewService(repo, &mockUserService{}, NewJWTTokenGenerator(testSecret, 0), hasher, discardLogger())
		handler = NewHandler(service)
		rbac := NewRBACAuthorization(NewRoleChecker(), discardLogger())

		ok := func(w http.ResponseWriter, r *http.Request) {
			u, _ := internal.UserFromContext(r.Context())
			handler.WriteSuccess(w, http.StatusOK, "ok", map[string]int64{"id": u.ID})
		}

		router = chi.NewRouter()
		router.Post("/auth/register", handler.Register)
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.With(rbac.RequireRoles("user|admin")).Get("/customers", ok)
			r.With(rbac.RequireAdmin()).Get("/users", ok)
		})
	})

	ginkgo.It("registers a user with 201", func() {
		code, env := send(http.MethodPost, "/auth/register", "", `{"name":"newbie","email":"new@example.com","password":"secret","password_confirmation":"secret"}`)

		gomega.Expect(code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(env.Success).To(gomega.BeTrue())
		gomega.Expect(env.Message).To(gomega.Equal("Registration successful"))
	})

	ginkgo.It("returns the user and token on login", func() {
		code, env := send(http.MethodPost, "/auth/login", "", `{"email":"user@example.com","password":"correct_password"}`)

		gomega.Expect(code).To(gomega.Equal(http.StatusOK))
		result := env.Result.(map[string]interface{})
		gomega.Expect(result).To(gomega.HaveKey("user"))
		gomega.Expect(result["token"]).NotTo(gomega.BeEmpty())
	})

	ginkgo.It("distinguishes unknown email from wrong password", func() {
		code, env := send(http.MethodPost, "/auth/login", "", `{"email":"ghost@example.com","password":"x"}`)
		gomega.Expect(code).To(gomega.Equal(http.StatusNotFound))
		gomega.Expect(env.Message).To(gomega.Equal("Login credentials not found"))

		code, env = send(http.MethodPost, "/auth/login", "", `{"email":"user@example.com","password":"x"}`)
		gomega.Expect(code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(env.Message).To(gomega.Equal("Incorrect login credentials"))
	})

	ginkgo.It("answers 401 without a token", func() {
		code, env := send(http.MethodGet, "/customers", "", "")

		gomega.Expect(code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(env.Success).To(gomega.BeFalse())
		gomega.Expect(env.Message).To(gomega.Equal("Unauthenticated."))
		gomega.Expect(env.Result).To(gomega.Equal(""))
	})

	ginkgo.It("answers 403 when the role set does not intersect", func() {
		token := login("user@example.com")

		code, _ := send(http.MethodGet, "/customers", token, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusOK))

		code, env := send(http.MethodGet, "/users", token, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(env.Message).To(gomega.Equal("User does not have the right roles."))
	})

	ginkgo.It("lets an admin through both gates", func() {
		token := login("admin@example.com")

		code, _ := send(http.MethodGet, "/customers", token, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusOK))
		code, _ = send(http.MethodGet, "/users", token, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("invalidates every token of the user on logout", func() {
		first := login("user@example.com")
		second := login("user@example.com")

		code, env := send(http.MethodPost, "/auth/logout", first, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(env.Message).To(gomega.Equal("Logged out successfully"))

		code, _ = send(http.MethodGet, "/customers", second, "")
		gomega.Expect(code).To(gomega.Equal(http.StatusUnauthorized))
	})
})

var _ = ginkgo.Describe("ParseRoleExpression", func() {
	ginkgo.It("splits alternatives and drops blanks and repeats", func() {
		gomega.Expect(ParseRoleExpression("user|admin")).To(gomega.Equal([]string{"user", "admin"}))
		gomega.Expect(ParseRoleExpression(" admin | |admin")).To(gomega.Equal([]string{"admin"}))
		gomega.Expect(ParseRoleExpression("")).To(gomega.BeEmpty())
	})

	ginkgo.It("matches when any role intersects", func() {
		checker := NewRoleChecker()
		gomega.Expect(checker.HasAnyRole([]string{"user"}, []string{"user", "admin"})).To(gomega.BeTrue())
		gomega.Expect(checker.HasAnyRole([]string{"user"}, []string{"admin"})).To(gomega.BeFalse())
		gomega.Expect(checker.HasAnyRole(nil, []string{"admin"})).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("RBACAuthorization", func() {
	ginkgo.It("logs the identity's roles and permissions on denial", func() {
		var buf bytes.Buffer
		rbac := NewRBACAuthorization(NewRoleChecker(), slog.New(slog.NewJSONHandler(&buf, nil)))
		gate := rbac.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		identity := &internal.User{ID: 7, Roles: []string{"user"}, Permissions: []string{"view profile"}}
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req = req.WithContext(internal.ContextWithUser(req.Context(), identity))
		w := httptest.NewRecorder()
		gate.ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))

		var record map[string]interface{}
		gomega.Expect(json.Unmarshal(buf.Bytes(), &record)).To(gomega.Succeed())
		gomega.Expect(record["msg"]).To(gomega.Equal("access denied: missing role"))
		gomega.Expect(record["user_roles"]).To(gomega.Equal([]interface{}{"user"}))
		gomega.Expect(record["user_permissions"]).To(gomega.Equal([]interface{}{"view profile"}))
	})
})
