package http_test

import (
	"context"
	"encoding/json"
	"io"
	netHTTP "net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flux-anime/weaver/core/application"
	"github.com/flux-anime/weaver/core/backend"
	"github.com/flux-anime/weaver/core/config"
	weaverHTTP "github.com/flux-anime/weaver/core/http"
	"github.com/flux-anime/weaver/core/schema"
)

func startServer(opts ...config.AppOption) *httptest.Server {
	app, err := application.New(opts...)
	Expect(err).ToNot(HaveOccurred())

	e, err := weaverHTTP.API(app)
	Expect(err).ToNot(HaveOccurred())

	return httptest.NewServer(e)
}

func getJSON(serverURL, path string, out interface{}) *netHTTP.Response {
	resp, err := netHTTP.Get(serverURL + path)
	Expect(err).ToNot(HaveOccurred())
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	Expect(err).ToNot(HaveOccurred())
	if out != nil {
		Expect(json.Unmarshal(body, out)).To(Succeed())
	}
	return resp
}

var _ = Describe("API", Ordered, func() {
	var server *httptest.Server
	var originalGeneration func(ctx context.Context, client *backend.InferenceClient, prompt string, seed int64, steps int) (*backend.GenerationResult, error)

	BeforeAll(func() {
		originalGeneration = backend.ImageGenerationFunc
		backend.ImageGenerationFunc = func(ctx context.Context, client *backend.InferenceClient, prompt string, seed int64, steps int) (*backend.GenerationResult, error) {
			return &backend.GenerationResult{Image: "aW1hZ2U=", Seed: seed, Steps: steps}, nil
		}
		server = startServer()
	})

	AfterAll(func() {
		backend.ImageGenerationFunc = originalGeneration
		server.Close()
	})

	Context("web interface", func() {
		It("serves the landing page", func() {
			resp, err := netHTTP.Get(server.URL + "/")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Anime Dream Weaver"))
			Expect(string(body)).To(ContainSubstring("cherry blossom"))
		})

		It("serves the favicon", func() {
			resp, err := netHTTP.Get(server.URL + "/favicon.svg")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("image/svg+xml"))
		})
	})

	Context("health endpoints", func() {
		It("reports healthy with the configured model", func() {
			var health schema.HealthResponse
			resp := getJSON(server.URL, "/health", &health)
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			Expect(health.Status).To(Equal("healthy"))
			Expect(health.Model).To(Equal(config.DefaultModelConfig().Model))
		})

		It("answers the orchestration probes", func() {
			for _, path := range []string{"/healthz", "/readyz"} {
				resp, err := netHTTP.Get(server.URL + path)
				Expect(err).ToNot(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			}
		})
	})

	Context("default preview", func() {
		It("returns the bundled preview image", func() {
			var preview schema.PreviewResponse
			resp := getJSON(server.URL, "/default-preview", &preview)
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			Expect(preview.Prompt).ToNot(BeEmpty())
			Expect(preview.Image).ToNot(BeNil())
		})
	})

	Context("image generation", func() {
		It("generates an image from a prompt", func() {
			resp, err := netHTTP.PostForm(server.URL+"/generate", url.Values{
				"prompt": {"A fox spirit wandering a bamboo forest"},
				"steps":  {"4"},
				"seed":   {"123"},
			})
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
			var generated schema.GenerationResponse
			Expect(json.NewDecoder(resp.Body).Decode(&generated)).To(Succeed())
			Expect(generated.Success).To(BeTrue())
			Expect(generated.Image).To(Equal("aW1hZ2U="))
			Expect(generated.Seed).To(Equal(int64(123)))
			Expect(generated.EnhancedPrompt).To(ContainSubstring("anime"))
		})

		It("rejects an empty prompt", func() {
			resp, err := netHTTP.PostForm(server.URL+"/generate", url.Values{"prompt": {"  "}})
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(netHTTP.StatusBadRequest))
			var generated schema.GenerationResponse
			Expect(json.NewDecoder(resp.Body).Decode(&generated)).To(Succeed())
			Expect(generated.Success).To(BeFalse())
			Expect(generated.Error).To(ContainSubstring("Invalid prompt"))
		})
	})

	Context("observability", func() {
		It("exposes prometheus metrics", func() {
			resp, err := netHTTP.Get(server.URL + "/metrics")
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
		})
	})

	Context("unknown routes", func() {
		It("returns a JSON error for API clients", func() {
			req, err := netHTTP.NewRequest(netHTTP.MethodGet, server.URL+"/no-such-route", nil)
			Expect(err).ToNot(HaveOccurred())
			req.Header.Set("Accept", "application/json")

			resp, err := netHTTP.DefaultClient.Do(req)
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusNotFound))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))
		})
	})
})

var _ = Describe("API with keys", Ordered, func() {
	var server *httptest.Server
	var originalGeneration func(ctx context.Context, client *backend.InferenceClient, prompt string, seed int64, steps int) (*backend.GenerationResult, error)

	BeforeAll(func() {
		originalGeneration = backend.ImageGenerationFunc
		backend.ImageGenerationFunc = func(ctx context.Context, client *backend.InferenceClient, prompt string, seed int64, steps int) (*backend.GenerationResult, error) {
			return &backend.GenerationResult{Image: "aW1hZ2U=", Seed: seed, Steps: steps}, nil
		}
		server = startServer(
			config.WithApiKeys([]string{"test-key"}),
			config.DisableMetricsEndpoint,
			config.WithDisableApiKeyRequirementForHttpGet(true),
			config.WithHttpGetExemptedEndpoints([]string{"^/health$"}),
		)
	})

	AfterAll(func() {
		backend.ImageGenerationFunc = originalGeneration
		server.Close()
	})

	It("rejects unauthenticated generation requests", func() {
		resp, err := netHTTP.PostForm(server.URL+"/generate", url.Values{"prompt": {"A test"}})
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(netHTTP.StatusUnauthorized))
	})

	It("accepts a bearer token", func() {
		req, err := netHTTP.NewRequest(netHTTP.MethodPost, server.URL+"/generate",
			strings.NewReader(url.Values{"prompt": {"A test"}}.Encode()))
		Expect(err).ToNot(HaveOccurred())
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer test-key")

		resp, err := netHTTP.DefaultClient.Do(req)
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
	})

	It("leaves health checks open", func() {
		resp, err := netHTTP.Get(server.URL + "/health")
		Expect(err).ToNot(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))

		resp, err = netHTTP.Get(server.URL + "/healthz")
		Expect(err).ToNot(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK))
	})
})

var _ = Describe("API with keys and no GET exemptions", Ordered, func() {
	var server *httptest.Server

	BeforeAll(func() {
		server = startServer(
			config.WithApiKeys([]string{"test-key"}),
			config.DisableMetricsEndpoint,
		)
	})

	AfterAll(func() {
		server.Close()
	})

	It("keeps every health probe reachable", func() {
		for _, path := range []string{"/health", "/healthz", "/readyz"} {
			resp, err := netHTTP.Get(server.URL + path)
			Expect(err).ToNot(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(netHTTP.StatusOK), path)
		}
	})

	It("still guards the generation endpoint", func() {
		resp, err := netHTTP.PostForm(server.URL+"/generate", url.Values{"prompt": {"A test"}})
		Expect(err).ToNot(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(netHTTP.StatusUnauthorized))
	})
})
