package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/edit-story/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/edit-story/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/edit-story/:id", "200")))
}

func TestStoryMutationAndReleaseFailures(t *testing.T) {
	m := New()
	m.StoryMutation("create")
	m.StoryMutation("create")
	m.StoryMutation("delete")
	m.ImageReleaseFailed("http://x/y.png", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.releaseFailures))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.StoryMutation("edit")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stories_mutations_total{op="edit"} 1`)
}
