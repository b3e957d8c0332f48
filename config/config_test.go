package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JohnPlummer/jp-go-restcheck/config"
)

var _ = Describe("LoadFrom", func() {
	Context("with no file and no environment", func() {
		It("applies the defaults", func() {
			settings, err := config.LoadFrom("")
			Expect(err).NotTo(HaveOccurred())

			Expect(settings.API.BaseURL).To(Equal("https://api.restful-api.dev"))
			Expect(settings.API.Collection).To(Equal("objects"))
			Expect(settings.API.Timeout).To(Equal(30 * time.Second))
			Expect(settings.Retry.MaxAttempts).To(Equal(3))
			Expect(settings.Retry.InitialDelay).To(Equal(250 * time.Millisecond))
			Expect(settings.Retry.Multiplier).To(Equal(2.0))
			Expect(settings.Fixtures.Dir).To(Equal("testdata"))
			Expect(settings.Log.Level).To(Equal("info"))
		})

		It("ignores a missing config file", func() {
			settings, err := config.LoadFrom(filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.API.Collection).To(Equal("objects"))
		})
	})

	Context("with a YAML file", func() {
		It("layers the file over the defaults", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "restcheck.yaml")
			content := []byte("api:\n  baseurl: http://localhost:9999\n  collection: widgets\nretry:\n  maxattempts: 5\n")
			Expect(os.WriteFile(path, content, 0o600)).To(Succeed())

			settings, err := config.LoadFrom(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.API.BaseURL).To(Equal("http://localhost:9999"))
			Expect(settings.API.Collection).To(Equal("widgets"))
			Expect(settings.Retry.MaxAttempts).To(Equal(5))
			// Untouched keys keep their defaults.
			Expect(settings.Retry.Multiplier).To(Equal(2.0))
		})

		It("rejects a malformed file", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "restcheck.yaml")
			Expect(os.WriteFile(path, []byte("api: [unclosed"), 0o600)).To(Succeed())

			_, err := config.LoadFrom(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with environment variables", func() {
		AfterEach(func() {
			os.Unsetenv("RESTCHECK_API_BASEURL")
			os.Unsetenv("RESTCHECK_RETRY_MAXATTEMPTS")
			os.Unsetenv("RESTCHECK_LOG_LEVEL")
		})

		It("overrides everything else", func() {
			os.Setenv("RESTCHECK_API_BASEURL", "http://127.0.0.1:8080")
			os.Setenv("RESTCHECK_RETRY_MAXATTEMPTS", "7")

			settings, err := config.LoadFrom("")
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.API.BaseURL).To(Equal("http://127.0.0.1:8080"))
			Expect(settings.Retry.MaxAttempts).To(Equal(7))
		})

		It("rejects an invalid log level", func() {
			os.Setenv("RESTCHECK_LOG_LEVEL", "verbose")

			_, err := config.LoadFrom("")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("validation", func() {
		AfterEach(func() {
			os.Unsetenv("RESTCHECK_API_BASEURL")
			os.Unsetenv("RESTCHECK_RETRY_MAXATTEMPTS")
		})

		It("rejects a non-URL base", func() {
			os.Setenv("RESTCHECK_API_BASEURL", "not a url")

			_, err := config.LoadFrom("")
			Expect(err).To(HaveOccurred())
		})

		It("rejects a zero attempt count", func() {
			os.Setenv("RESTCHECK_RETRY_MAXATTEMPTS", "0")

			_, err := config.LoadFrom("")
			Expect(err).To(HaveOccurred())
		})
	})
})
