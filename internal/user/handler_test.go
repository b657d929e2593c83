package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/user"
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

var _ = Describe("User Handler Integration", func() {
	var (
		fx     *fixture
		router chi.Router
		actor  *internal.User
	)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		fx = newFixture()
		actor = nil
		handler := user.NewHandler(fx.service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if actor != nil {
					r = r.WithContext(internal.ContextWithUser(r.Context(), actor))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/users", handler.ListUsers)
		router.Post("/users/create", handler.CreateUser)
		router.Get("/users/{id}/details", handler.GetUser)
		router.Patch("/users/{id}/update", handler.UpdateUser)
		router.Delete("/users/{id}/delete", handler.DeleteUser)
		router.Post("/users/status/{id}/admin", handler.MakeAdmin)
		router.Get("/user/profile", handler.GetProfile)
		router.Patch("/user/update", handler.UpdateProfile)
	})

	AfterEach(func() {
		Expect(fx.store.Close()).To(Succeed())
	})

	createAlice := func() user.Response {
		w := do(http.MethodPost, "/users/create",
			`{"name":"alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		env := decodeEnvelope(w)
		var created user.Response
		Expect(json.Unmarshal(env.Result, &created)).To(Succeed())
		return created
	}

	It("creates a user without leaking the password hash", func() {
		w := do(http.MethodPost, "/users/create",
			`{"name":"alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
		env := decodeEnvelope(w)
		Expect(env.Success).To(BeTrue())
		Expect(env.Message).To(Equal("User Created successfully"))
	})

	It("answers 422 with every failed rule", func() {
		w := do(http.MethodPost, "/users/create", `{"email":"alice@example.com"}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		env := decodeEnvelope(w)
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(ContainElements("Please provide your name", "Please provide your password"))
	})

	It("lists users with pagination meta", func() {
		createAlice()

		w := do(http.MethodGet, "/users?page=1", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		env := decodeEnvelope(w)
		Expect(env.Message).To(Equal("Users List"))
		Expect(string(env.Result)).To(ContainSubstring(`"alice@example.com"`))
	})

	It("answers 404 for a non numeric id", func() {
		w := do(http.MethodGet, "/users/abc/details", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeEnvelope(w).Message).To(Equal("User Not Found"))
	})

	It("updates and deletes a user", func() {
		created := createAlice()
		target := "/users/" + strconv.FormatInt(created.ID, 10)

		w := do(http.MethodPatch, target+"/update", `{"name":"alicia","email":"alicia@example.com"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeEnvelope(w).Message).To(Equal("User Details Updated Successfully"))

		w = do(http.MethodDelete, target+"/delete", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeEnvelope(w).Message).To(Equal("User Deleted Successfully"))

		w = do(http.MethodGet, target+"/details", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("promotes a user once", func() {
		created := createAlice()
		target := "/users/status/" + strconv.FormatInt(created.ID, 10) + "/admin"

		w := do(http.MethodPost, target, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeEnvelope(w).Message).To(Equal("User admin status changed successfully"))

		w = do(http.MethodPost, target, "")
		Expect(w.Code).To(Equal(http.StatusExpectationFailed))
		Expect(decodeEnvelope(w).Message).To(Equal("This user has an admin status already"))
	})

	Describe("profile", func() {
		It("answers 401 without an authenticated user", func() {
			w := do(http.MethodGet, "/user/profile", "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns and updates the caller", func() {
			created := createAlice()
			actor = &internal.User{ID: created.ID, Email: created.Email, Roles: created.Roles}

			w := do(http.MethodGet, "/user/profile", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope(w).Message).To(Equal("User Profile"))

			w = do(http.MethodPatch, "/user/update", `{"name":"alicia","email":"alice@example.com"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope(w)
			Expect(env.Message).To(Equal("Profile Updated successfully"))

			var updated user.Response
			Expect(json.Unmarshal(env.Result, &updated)).To(Succeed())
			Expect(updated.Name).To(Equal("alicia"))
		})
	})
})
