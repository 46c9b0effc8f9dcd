package internal_test

import (
	"os"
	"time"

	"github.com/frahmantamala/company-api/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should validate", func() {
			Expect(internal.DefaultConfig().Validate()).To(Succeed())
		})

		It("should use the demo secret and a page size of 100", func() {
			cfg := internal.DefaultConfig()
			Expect(cfg.Security.BearerSecret).To(Equal("supersecret"))
			Expect(cfg.Pagination.PageSize).To(Equal(100))
		})
	})

	Describe("Validate", func() {
		DescribeTable("should reject invalid settings",
			func(mutate func(*internal.Config), fragment string) {
				cfg := internal.DefaultConfig()
				mutate(cfg)

				err := cfg.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(fragment))
			},
			Entry("port out of range", func(c *internal.Config) { c.Server.Port = 70000 }, "invalid port"),
			Entry("unknown driver", func(c *internal.Config) { c.Database.Driver = "mysql" }, "unsupported driver"),
			Entry("empty source", func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
			Entry("idle above open", func(c *internal.Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"),
			Entry("empty secret", func(c *internal.Config) { c.Security.BearerSecret = "" }, "bearer_secret is required"),
			Entry("secret with separator", func(c *internal.Config) { c.Security.BearerSecret = "a:b" }, "must not contain"),
			Entry("zero page size", func(c *internal.Config) { c.Pagination.PageSize = 0 }, "page_size"),
			Entry("relative metrics path", func(c *internal.Config) { c.Observability.Metrics.Path = "metrics" }, "metrics path"),
			Entry("unknown log format", func(c *internal.Config) { c.Observability.Logging.Format = "xml" }, "log format"),
		)

		It("should report every failing section at once", func() {
			cfg := internal.DefaultConfig()
			cfg.Server.Port = 0
			cfg.Pagination.PageSize = -1

			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("server config"))
			Expect(err.Error()).To(ContainSubstring("pagination config"))
		})
	})

	Describe("LoadConfigFromEnv", func() {
		var saved map[string]string

		BeforeEach(func() {
			saved = map[string]string{}
			for _, key := range []string{"DB_DRIVER", "DB_SOURCE", "PAGE_SIZE", "BEARER_SECRET", "HTTP_READ_TIMEOUT"} {
				saved[key] = os.Getenv(key)
			}
		})

		AfterEach(func() {
			for key, value := range saved {
				os.Setenv(key, value)
			}
		})

		It("should read the database, security and pagination settings", func() {
			os.Setenv("DB_DRIVER", "postgres")
			os.Setenv("DB_SOURCE", "postgres://localhost/company")
			os.Setenv("PAGE_SIZE", "25")
			os.Setenv("BEARER_SECRET", "othersecret")
			os.Setenv("HTTP_READ_TIMEOUT", "20s")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Database.Driver).To(Equal(internal.DriverPostgres))
			Expect(cfg.Database.Source).To(Equal("postgres://localhost/company"))
			Expect(cfg.Pagination.PageSize).To(Equal(25))
			Expect(cfg.Security.BearerSecret).To(Equal("othersecret"))
			Expect(cfg.Server.ReadTimeout).To(Equal(20 * time.Second))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should keep defaults for unparsable numbers", func() {
			os.Setenv("PAGE_SIZE", "many")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Pagination.PageSize).To(Equal(internal.DefaultPageSize))
		})
	})
})
