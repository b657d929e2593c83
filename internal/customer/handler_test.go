package customer_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/internal/customer"
	customerPostgres "github.com/frahmantamala/crm-management/internal/customer/postgres"
	"github.com/frahmantamala/crm-management/internal/storage"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Message interface{}     `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func multipartBody(fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		Expect(mw.WriteField(k, v)).To(Succeed())
	}
	if filename != "" {
		part, err := mw.CreateFormFile("photo_url", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(mw.Close()).To(Succeed())
	return body, mw.FormDataContentType()
}

var _ = Describe("Customer Handler Integration", func() {
	var (
		store  *datastore.Store
		router chi.Router
		actor  *internal.User
	)

	serve := func(req *http.Request) (int, envelope) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return w.Code, env
	}

	BeforeEach(func() {
		store = newTestStore()
		actor = &internal.User{ID: 1, Name: "alice", Roles: []string{"user"}}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := customer.NewService(customerPostgres.NewCustomerRepository(store.Gorm), storage.NewMemoryStore(), maxUpload, logger)
		handler := customer.NewHandler(service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if actor != nil {
					r = r.WithContext(internal.ContextWithUser(r.Context(), actor))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/customers", handler.ListCustomers)
		router.Post("/customers/create", handler.CreateCustomer)
		router.Get("/customers/{id}/details", handler.GetCustomer)
		router.Patch("/customers/{id}/update", handler.UpdateCustomer)
		router.Delete("/customers/{id}/delete", handler.DeleteCustomer)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("creates a customer from a multipart form with a photo", func() {
		body, contentType := multipartBody(map[string]string{"name": "John", "surname": "Doe", "added_by": "2"}, "face.png", pngBytes)
		req := httptest.NewRequest(http.MethodPost, "/customers/create", body)
		req.Header.Set("Content-Type", contentType)

		code, env := serve(req)
		Expect(code).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Customer Created Successfully"))

		var created customer.Response
		Expect(json.Unmarshal(env.Result, &created)).To(Succeed())
		Expect(created.AddedBy.ID).To(Equal(int64(1)))
		Expect(*created.PhotoURL).To(HavePrefix("customers/avatars/John/"))
	})

	It("lists validation messages for an empty form", func() {
		body, contentType := multipartBody(map[string]string{}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/customers/create", body)
		req.Header.Set("Content-Type", contentType)

		code, env := serve(req)
		Expect(code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(ConsistOf("Please provide the customer's name", "The surname field is required."))
	})

	It("reads name and surname from the form body only", func() {
		body, contentType := multipartBody(map[string]string{}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/customers/create?name=John&surname=Doe", body)
		req.Header.Set("Content-Type", contentType)

		code, env := serve(req)
		Expect(code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Message).To(ConsistOf("Please provide the customer's name", "The surname field is required."))
	})

	It("updates from a urlencoded form and keeps the photo", func() {
		body, contentType := multipartBody(map[string]string{"name": "John", "surname": "Doe"}, "face.png", pngBytes)
		req := httptest.NewRequest(http.MethodPost, "/customers/create", body)
		req.Header.Set("Content-Type", contentType)
		code, env := serve(req)
		Expect(code).To(Equal(http.StatusCreated))
		var created customer.Response
		Expect(json.Unmarshal(env.Result, &created)).To(Succeed())

		actor = &internal.User{ID: 2, Name: "bob", Roles: []string{"admin"}}
		form := url.Values{"name": {"Johnny"}, "surname": {"Doe"}}
		req = httptest.NewRequest(http.MethodPatch, "/customers/1/update", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		code, env = serve(req)
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Customer Updated successfully"))

		var updated customer.Response
		Expect(json.Unmarshal(env.Result, &updated)).To(Succeed())
		Expect(updated.Name).To(Equal("Johnny"))
		Expect(updated.PhotoURL).To(Equal(created.PhotoURL))
		Expect(updated.LastUpdatedBy.ID).To(Equal(int64(2)))
	})

	It("shows, lists and deletes", func() {
		body, contentType := multipartBody(map[string]string{"name": "John", "surname": "Doe"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/customers/create", body)
		req.Header.Set("Content-Type", contentType)
		code, _ := serve(req)
		Expect(code).To(Equal(http.StatusCreated))

		code, env := serve(httptest.NewRequest(http.MethodGet, "/customers/1/details", nil))
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Customer Details"))

		code, env = serve(httptest.NewRequest(http.MethodGet, "/customers", nil))
		Expect(code).To(Equal(http.StatusOK))
		var page struct {
			Data []customer.Response `json:"data"`
		}
		Expect(json.Unmarshal(env.Result, &page)).To(Succeed())
		Expect(page.Data).To(HaveLen(1))

		code, env = serve(httptest.NewRequest(http.MethodDelete, "/customers/1/delete", nil))
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Customer Deleted successfully"))

		code, env = serve(httptest.NewRequest(http.MethodGet, "/customers", nil))
		Expect(code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Customers Not Found"))
	})

	It("answers 401 without an acting user", func() {
		actor = nil
		body, contentType := multipartBody(map[string]string{"name": "John", "surname": "Doe"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/customers/create", body)
		req.Header.Set("Content-Type", contentType)

		code, env := serve(req)
		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Unauthenticated."))
	})
})
