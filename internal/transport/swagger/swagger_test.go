package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/crm-management/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

const validDocument = `openapi: 3.0.3
info:
  title: CRM
  version: 1.0.0
paths:
  /auth/login:
    post:
      responses:
        "200":
          description: Login successful
`

var _ = Describe("Load", func() {
	var fs afero.Fs

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
	})

	It("loads and serves a valid document", func() {
		Expect(afero.WriteFile(fs, "api/openapi.yml", []byte(validDocument), 0o644)).To(Succeed())

		doc, err := swagger.Load(context.Background(), fs, "api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Spec.Info.Title).To(Equal("CRM"))
		Expect(doc.Spec.Paths.Find("/auth/login")).NotTo(BeNil())

		w := httptest.NewRecorder()
		doc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, swagger.DocumentPath, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(w.Body.String()).To(Equal(validDocument))
	})

	It("fails when the file is missing", func() {
		_, err := swagger.Load(context.Background(), fs, "api/openapi.yml")
		Expect(err).To(MatchError(ContainSubstring("read openapi document")))
	})

	It("rejects a document without info", func() {
		Expect(afero.WriteFile(fs, "api/openapi.yml", []byte("openapi: 3.0.3\npaths: {}\n"), 0o644)).To(Succeed())

		_, err := swagger.Load(context.Background(), fs, "api/openapi.yml")
		Expect(err).To(HaveOccurred())
	})
})
