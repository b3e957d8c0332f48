package executor_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	pkgerrors "github.com/JohnPlummer/jp-go-errors"

	"github.com/JohnPlummer/jp-go-restcheck/executor"
)

var _ = Describe("StatusCodeClassifier", func() {
	var classifier *executor.StatusCodeClassifier

	BeforeEach(func() {
		classifier = executor.NewStatusCodeClassifier()
	})

	Describe("IsTransientStatus", func() {
		DescribeTable("default transient set",
			func(status int, expected bool) {
				Expect(classifier.IsTransientStatus(status)).To(Equal(expected))
			},
			Entry("429 rate limit", 429, true),
			Entry("500 internal server error", 500, true),
			Entry("502 bad gateway", 502, true),
			Entry("503 service unavailable", 503, true),
			Entry("504 gateway timeout", 504, true),
			Entry("599 edge of the server range", 599, true),
			Entry("200 success", 200, false),
			Entry("201 created", 201, false),
			Entry("204 no content", 204, false),
			Entry("400 bad request", 400, false),
			Entry("404 not found", 404, false),
			Entry("418 teapot", 418, false),
		)

		It("uses only the explicit set when one is configured", func() {
			classifier.TransientStatuses = []int{503}
			Expect(classifier.IsTransientStatus(503)).To(BeTrue())
			Expect(classifier.IsTransientStatus(429)).To(BeFalse())
			Expect(classifier.IsTransientStatus(500)).To(BeFalse())
		})
	})

	Describe("IsRetryableError", func() {
		It("does not retry a nil error", func() {
			Expect(classifier.IsRetryableError(nil)).To(BeFalse())
		})

		It("does not retry context cancellation", func() {
			Expect(classifier.IsRetryableError(context.Canceled)).To(BeFalse())
			Expect(classifier.IsRetryableError(context.DeadlineExceeded)).To(BeFalse())
		})

		It("does not retry wrapped context errors", func() {
			wrapped := fmt.Errorf("request aborted: %w", context.DeadlineExceeded)
			Expect(classifier.IsRetryableError(wrapped)).To(BeFalse())
		})

		It("retries rate limit sentinels", func() {
			Expect(classifier.IsRetryableError(pkgerrors.ErrRateLimited)).To(BeTrue())
		})

		It("retries per-exchange timeouts even though they wrap a context deadline", func() {
			// This is how net/http reports an expired Client.Timeout.
			timedOut := &url.Error{
				Op:  "Get",
				URL: "http://api.invalid/objects",
				Err: context.DeadlineExceeded,
			}
			Expect(classifier.IsRetryableError(timedOut)).To(BeTrue())
		})

		It("retries generic network failures", func() {
			Expect(classifier.IsRetryableError(errors.New("connection reset by peer"))).To(BeTrue())
		})
	})
})
