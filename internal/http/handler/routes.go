package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"mediacore/internal/multipart"
	"mediacore/internal/pdf"
	"mediacore/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: they hand the raw body plus content type header to the service
// and translate its errors; all byte-level work lives below.
func RegisterRoutes(app *fiber.App, uploadSvc service.UploadService, metrics *UploadMetrics) {
	// Serve the OpenAPI spec and a Swagger UI page for it
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Media Ingestion API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", Health())

	// Backward-compatible simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/uploads/images", UploadImages(uploadSvc, metrics))
	app.Post("/uploads/pdfs", UploadPDFs(uploadSvc, metrics))
}

// Health reports service health. The ingestion core has no external
// dependencies to probe, so this is equivalent to liveness.
func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// UploadImages handles multipart image uploads. Query parameters:
// optimize (bool, default false) selects the derivative pipeline; quality
// (int, default from config) is the encode quality, rejected outside 1-100.
// Only an absent quality parameter falls back to the default: an explicit 0
// or unparseable value is a validation failure, never silently defaulted.
func UploadImages(uploadSvc service.UploadService, metrics *UploadMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := service.ImageOptions{
			Optimize: c.QueryBool("optimize", false),
		}
		if raw := c.Query("quality"); raw != "" {
			q, err := strconv.Atoi(raw)
			if err != nil || q < 1 || q > 100 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUALITY", "quality must be an integer between 1 and 100")
			}
			opts.Quality = q
		}

		res, err := uploadSvc.ProcessImages(c.UserContext(), c.Body(), c.Get(fiber.HeaderContentType), opts)
		if err != nil {
			return mapUploadError(c, err)
		}

		metrics.Observe("image", len(res.Files)+len(res.Optimized), len(res.Failures))
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// UploadPDFs handles multipart PDF uploads. Query parameters: compress
// (bool), quality (low|medium|high, default medium), strip_metadata (bool).
func UploadPDFs(uploadSvc service.UploadService, metrics *UploadMetrics) fiber.Handler {
	validTiers := []string{string(pdf.TierLow), string(pdf.TierMedium), string(pdf.TierHigh)}

	return func(c *fiber.Ctx) error {
		quality := c.Query("quality", string(pdf.TierMedium))
		if !lo.Contains(validTiers, quality) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUALITY", "pdf quality must be low, medium or high")
		}

		opts := service.PDFOptions{
			Compress:      c.QueryBool("compress", false),
			Quality:       pdf.Tier(quality),
			StripMetadata: c.QueryBool("strip_metadata", false),
		}

		res, err := uploadSvc.ProcessPDFs(c.UserContext(), c.Body(), c.Get(fiber.HeaderContentType), opts)
		if err != nil {
			return mapUploadError(c, err)
		}

		metrics.Observe("pdf", len(res.Files), len(res.Failures))
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// mapUploadError translates service errors into the standard envelope.
// Per-file problems never reach here; they ride in the response body.
func mapUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, multipart.ErrNoBoundary):
		return writeError(c, fiber.StatusBadRequest, "MALFORMED_MULTIPART", "content type carries no multipart boundary")
	case errors.Is(err, multipart.ErrNoSeparator):
		// Strict decoding mode rejects malformed parts.
		return writeError(c, fiber.StatusBadRequest, "MALFORMED_MULTIPART", "request body is not valid multipart form data")
	case errors.Is(err, service.ErrNoFiles):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "request contains no file parts")
	case errors.Is(err, service.ErrInvalidOptions):
		return writeError(c, fiber.StatusBadRequest, "INVALID_QUALITY", "quality must be an integer between 1 and 100")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
