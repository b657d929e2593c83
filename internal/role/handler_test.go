package role_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/role"
	rolePostgres "github.com/frahmantamala/crm-management/internal/role/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Message interface{}     `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func decodeEnvelope(w *httptest.ResponseRecorder) envelope {
	var env envelope
	Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
	return env
}

var _ = Describe("Role Handler Integration", func() {
	var (
		store   *datastore.Store
		service *role.Service
		router  chi.Router
		slogger *slog.Logger
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		store, err = datastore.Open(internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"})
		Expect(err).NotTo(HaveOccurred())
		Expect(datastore.Migrate(store.Gorm)).To(Succeed())

		service = role.NewService(rolePostgres.NewRoleRepository(store.Gorm), slogger)
		handler := role.NewHandler(service)

		router = chi.NewRouter()
		router.Get("/roles", handler.ListRoles)
		router.Post("/roles/create", handler.CreateRole)
		router.Get("/roles/{id}/details", handler.GetRole)
		router.Patch("/roles/{id}/update", handler.UpdateRole)
		router.Delete("/roles/{id}/delete", handler.DeleteRole)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("answers 404 with an envelope when no roles exist", func() {
		w := do(http.MethodGet, "/roles", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		env := decodeEnvelope(w)
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(Equal("User Roles Not Found"))
		Expect(string(env.Result)).To(Equal(`""`))
	})

	It("creates, shows, renames and deletes a role", func() {
		w := do(http.MethodPost, "/roles/create", `{"name":"editor"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		env := decodeEnvelope(w)
		Expect(env.Message).To(Equal("Role Created Successfully"))

		var created role.Response
		Expect(json.Unmarshal(env.Result, &created)).To(Succeed())
		Expect(created.Name).To(Equal("editor"))

		w = do(http.MethodGet, "/roles/1/details", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeEnvelope(w).Message).To(Equal("Role Details"))

		w = do(http.MethodPatch, "/roles/1/update", `{"name":"reviewer"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated role.Response
		Expect(json.Unmarshal(decodeEnvelope(w).Result, &updated)).To(Succeed())
		Expect(updated.Name).To(Equal("reviewer"))

		w = do(http.MethodDelete, "/roles/1/delete", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		env = decodeEnvelope(w)
		Expect(env.Message).To(Equal("Role Deleted Successfully"))
		Expect(string(env.Result)).To(Equal(`""`))

		w = do(http.MethodGet, "/roles/1/details", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("lists validation messages for an empty body", func() {
		w := do(http.MethodPost, "/roles/create", "")

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decodeEnvelope(w).Message).To(ConsistOf("Please provide the role name"))
	})

	It("reports a non-string name against the field", func() {
		w := do(http.MethodPost, "/roles/create", `{"name":42}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decodeEnvelope(w).Message).To(ConsistOf("The role name must be a string"))
	})

	It("answers 404 for a non-numeric id", func() {
		w := do(http.MethodGet, "/roles/abc/details", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeEnvelope(w).Message).To(Equal("Role Not Found"))
	})

	Describe("user.registered", func() {
		It("assigns the default role", func() {
			bus := events.NewEventBus(slogger)
			role.NewEventHandler(service, slogger).RegisterEventHandlers(bus)

			Expect(store.Gorm.Exec("INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "alice", "alice@example.com", "x").Error).To(Succeed())
			Expect(bus.PublishSync(context.Background(), events.NewUserRegisteredEvent(1, "alice@example.com"))).To(Succeed())

			roleID, err := service.EnsureRole(context.Background(), "user")
			Expect(err).NotTo(HaveOccurred())
			has, err := service.UserHasRole(context.Background(), 1, roleID)
			Expect(err).NotTo(HaveOccurred())
			Expect(has).To(BeTrue())
		})

		It("rejects events of another type", func() {
			handler := role.NewEventHandler(service, slogger)
			err := handler.HandleUserRegistered(context.Background(), events.BaseEvent{Type: "other"})
			Expect(err).To(HaveOccurred())
		})
	})
})
