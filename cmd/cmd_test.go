package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/crm-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testConfig = `env: development
http_server:
  port: 9090
  allowed_origins: "https://a.example.com, https://b.example.com"
  read_header_timeout: 5s
  read_timeout: 15s
  idle_timeout: 60s
  write_timeout: 15s
database:
  driver: sqlite
  source: crm.db
  max_open_conns: 1
  max_idle_conns: 1
security:
  token_secret: 0123456789abcdef0123456789abcdef
  access_token_duration: 2h
  bcrypt_cost: 4
storage:
  upload_dir: storage/app
  max_upload_size: 2097152
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o644)).To(Succeed())
	})

	It("reads config.yml", func() {
		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://a.example.com", "https://b.example.com"}))
		Expect(cfg.Database.Driver).To(Equal(internal.DriverSQLite))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(2 * time.Hour))
		Expect(cfg.Storage.MaxUploadSize).To(Equal(int64(2097152)))
	})

	It("lets ENV_ variables override the file", func() {
		Expect(os.Setenv("ENV_DATABASE_SOURCE", "other.db")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_DATABASE_SOURCE")

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Database.Source).To(Equal("other.db"))
	})

	It("rejects a short token secret", func() {
		Expect(os.Setenv("ENV_SECURITY_TOKEN_SECRET", "short")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_SECURITY_TOKEN_SECRET")

		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("token secret")))
	})

	It("fails without a config file", func() {
		_, err := loadConfig(GinkgoT().TempDir())

		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})
