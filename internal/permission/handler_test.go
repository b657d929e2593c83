package permission_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/crm-management/internal/permission/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Permission Handler Integration", func() {
	var (
		store  *datastore.Store
		router chi.Router
	)

	type envelope struct {
		Success bool            `json:"success"`
		Message interface{}     `json:"message"`
		Result  json.RawMessage `json:"result"`
	}

	do := func(method, target, body string) (int, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return w.Code, env
	}

	BeforeEach(func() {
		var err error
		store, err = datastore.Open(internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"})
		Expect(err).NotTo(HaveOccurred())
		Expect(datastore.Migrate(store.Gorm)).To(Succeed())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := permission.NewService(permissionPostgres.NewPermissionRepository(store.Gorm), logger)
		handler := permission.NewHandler(service)

		router = chi.NewRouter()
		router.Get("/permissions", handler.ListPermissions)
		router.Post("/permissions/create", handler.CreatePermission)
		router.Get("/permissions/{id}/details", handler.GetPermission)
		router.Patch("/permissions/{id}/update", handler.UpdatePermission)
		router.Delete("/permissions/{id}/delete", handler.DeletePermission)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("walks a permission through its lifecycle", func() {
		code, env := do(http.MethodPost, "/permissions/create", `{"name":"list users"}`)
		Expect(code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
		Expect(env.Message).To(Equal("Permission Created Successfully"))

		code, env = do(http.MethodGet, "/permissions", "")
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User Permissions"))

		code, env = do(http.MethodGet, "/permissions/1/details", "")
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User Permission"))

		code, env = do(http.MethodPatch, "/permissions/1/update", `{"name":"list customers"}`)
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Permission Updated Successfully"))

		code, env = do(http.MethodDelete, "/permissions/1/delete", "")
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Permission Deleted Successfully"))
		Expect(string(env.Result)).To(Equal(`""`))
	})

	It("rejects a short name", func() {
		code, env := do(http.MethodPost, "/permissions/create", `{"name":"ab"}`)

		Expect(code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(ConsistOf("The permission name cannot be less than 3 characters long"))
	})

	It("answers 404 for a missing permission", func() {
		code, env := do(http.MethodDelete, "/permissions/9/delete", "")

		Expect(code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Permission Not Found"))
	})
})
