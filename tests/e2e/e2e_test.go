package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estateportal/internal/database"
	"estateportal/internal/domain/auth"
	"estateportal/internal/domain/content"
	"estateportal/internal/domain/document"
	"estateportal/internal/domain/image"
	"estateportal/internal/domain/property"
	"estateportal/internal/middleware"
	jwtsvc "estateportal/internal/pkg/jwt"
)

type testSuite struct {
	router    *gin.Engine
	db        *gorm.DB
	uploadDir string
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *pageMeta       `json:"meta,omitempty"`
	Error   *errorDetail    `json:"error,omitempty"`
}

type pageMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasPrev bool  `json:"hasPrev"`
	HasNext bool  `json:"hasNext"`
}

type errorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0x42}, 64)...)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

func setupSuite(t *testing.T) *testSuite {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(
		&auth.User{},
		&property.Property{},
		&image.PropertyImage{},
		&document.PropertyDocument{},
		&content.Page{},
		&content.Section{},
		&content.ServiceItem{},
	), "failed to migrate test database")

	uploadDir := t.TempDir()

	j := jwtsvc.NewIssuer("test_secret_key_32_characters_min", 24*time.Hour)

	userRepo := auth.NewUserRepository(db)
	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	propertyRepo := property.NewRepository(db)

	imageRepo := image.NewRepository(db)
	imageService := image.NewService(imageRepo, propertyRepo, uploadDir)
	imageHandler := image.NewHandler(imageService)

	documentRepo := document.NewRepository(db)
	documentService := document.NewService(documentRepo, propertyRepo, uploadDir)
	documentHandler := document.NewHandler(documentService)

	propertyService := property.NewService(
		propertyRepo,
		uploadDir,
		"http://test.local",
		"/static/img/placeholder.jpg",
		time.Second,
		imageService,
		documentService,
	)
	propertyHandler := property.NewHandler(propertyService)

	contentRepo := content.NewRepository(db)
	contentHandler := content.NewHandler(contentRepo)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorLogger(false))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(j))
	{
		auth.RegisterRoutes(api, authHandler)
		property.RegisterRoutes(api, propertyHandler)
		image.RegisterRoutes(api, imageHandler)
		document.RegisterRoutes(api, documentHandler)
		content.RegisterRoutes(api, contentHandler)

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(j), middleware.RequireRole(auth.RoleAdmin, auth.RoleEditor))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			property.RegisterProtectedRoutes(protected, propertyHandler)
			image.RegisterProtectedRoutes(protected, imageHandler)
			document.RegisterProtectedRoutes(protected, documentHandler)
			content.RegisterProtectedRoutes(protected, contentHandler)
		}
	}

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&auth.User{
		Email:        "admin@test.local",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		Name:         "Test Admin",
	}).Error, "failed to seed admin user")

	return &testSuite{router: r, db: db, uploadDir: uploadDir}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testSuite) upload(t *testing.T, path, fileField, filename string, fileContent []byte, fields map[string]string, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fileField, filename)
	require.NoError(t, err)
	_, err = part.Write(fileContent)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "unparseable response: %s", w.Body.String())
	return &resp
}

func (s *testSuite) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	resp := parse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func validProperty(code, title string) gin.H {
	return gin.H{
		"code":             code,
		"title":            title,
		"price":            150000,
		"currency":         "EUR",
		"transaction_type": "sale",
		"property_type":    "apartment",
		"city_region":      "Sofia",
		"district":         "Lozenets",
		"area":             85,
		"bedrooms":         2,
		"bathrooms":        1,
	}
}

type propertyPayload struct {
	Property property.Property `json:"property"`
}

func (s *testSuite) createProperty(t *testing.T, token string, body gin.H) propertyPayload {
	t.Helper()
	w := s.request(t, http.MethodPost, "/api/v1/properties", body, token)
	require.Equal(t, http.StatusCreated, w.Code, "create property failed: %s", w.Body.String())

	var payload propertyPayload
	require.NoError(t, json.Unmarshal(parse(t, w).Data, &payload))
	require.NotZero(t, payload.Property.ID)
	return payload
}

func TestAuthFlow(t *testing.T) {
	suite := setupSuite(t)

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "admin@test.local", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("login and fetch profile", func(t *testing.T) {
		token := suite.login(t, "admin@test.local", "admin123")

		w := suite.request(t, http.MethodGet, "/api/v1/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			User struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &data))
		assert.Equal(t, "admin@test.local", data.User.Email)
		assert.Equal(t, auth.RoleAdmin, data.User.Role)
	})

	t.Run("protected route without token", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/properties", validProperty("X-1", "No auth"), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPropertyLifecycle(t *testing.T) {
	suite := setupSuite(t)
	token := suite.login(t, "admin@test.local", "admin123")

	created := suite.createProperty(t, token, validProperty("AP-100", "Two-bedroom in Lozenets"))
	id := created.Property.ID

	t.Run("public read round-trips every field", func(t *testing.T) {
		w := suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", id), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var summary property.Summary
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &summary))
		assert.Equal(t, "http://test.local/static/img/placeholder.jpg", summary.MainImageURL)

		// The stored listing must match the created one field for field.
		// Timestamps are compared separately to tolerate driver rounding.
		want, got := created.Property, summary.Property
		assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)
		assert.WithinDuration(t, want.UpdatedAt, got.UpdatedAt, time.Second)
		want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
		want.UpdatedAt, got.UpdatedAt = time.Time{}, time.Time{}
		assert.Equal(t, want, got)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/properties", validProperty("AP-100", "Copycat"), token)
		assert.Equal(t, http.StatusConflict, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DUPLICATE_CODE", resp.Error.Code)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		stale := created.Property.UpdatedAt.Add(-time.Hour)
		w := suite.request(t, http.MethodPut, fmt.Sprintf("/api/v1/properties/%d", id), gin.H{
			"title":      "Should not land",
			"updated_at": stale,
		}, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UPDATE_CONFLICT", resp.Error.Code)
		assert.NotNil(t, resp.Error.Details)
	})

	t.Run("fresh update succeeds", func(t *testing.T) {
		w := suite.request(t, http.MethodPut, fmt.Sprintf("/api/v1/properties/%d", id), gin.H{
			"title":      "Two-bedroom, renovated",
			"updated_at": created.Property.UpdatedAt,
		}, token)
		require.Equal(t, http.StatusOK, w.Code, "update failed: %s", w.Body.String())

		var payload propertyPayload
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &payload))
		assert.Equal(t, "Two-bedroom, renovated", payload.Property.Title)
	})

	t.Run("inactive listings are hidden from the public", func(t *testing.T) {
		body := validProperty("AP-101", "Hidden draft")
		body["active"] = false
		draft := suite.createProperty(t, token, body)

		w := suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", draft.Property.ID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", draft.Property.ID), nil, token)
		assert.Equal(t, http.StatusOK, w.Code)

		w = suite.request(t, http.MethodGet, "/api/v1/properties?keyword=Hidden", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Zero(t, resp.Meta.Total)

		// The "all" sentinel lifts the default active filter.
		w = suite.request(t, http.MethodGet, "/api/v1/properties?keyword=Hidden&active=all", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp = parse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("validation failures", func(t *testing.T) {
		body := validProperty("AP-102", "Bad currency")
		body["currency"] = "GBP"
		w := suite.request(t, http.MethodPost, "/api/v1/properties", body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/properties/%d", id), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", id), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/properties/%d", id), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchPaginationMeta(t *testing.T) {
	suite := setupSuite(t)

	for i := 0; i < 20; i++ {
		require.NoError(t, suite.db.Create(&property.Property{
			Title:           fmt.Sprintf("Listing %02d", i),
			Price:           100000,
			Currency:        "EUR",
			TransactionType: "sale",
			PropertyType:    "apartment",
			Area:            70,
			Active:          true,
		}).Error)
	}

	w := suite.request(t, http.MethodGet, "/api/v1/properties?limit=16&page=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := parse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 16, resp.Meta.Limit)
	assert.Equal(t, int64(20), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Pages)
	assert.True(t, resp.Meta.HasPrev)
	assert.False(t, resp.Meta.HasNext)

	var rows []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &rows))
	assert.Len(t, rows, 4)

	// Pages past the result set come back empty, not as errors.
	w = suite.request(t, http.MethodGet, "/api/v1/properties?limit=16&page=5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = parse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, &rows))
	assert.Empty(t, rows)
	assert.Equal(t, int64(20), resp.Meta.Total)
}

type imagePayload struct {
	ID     int64 `json:"id"`
	IsMain bool  `json:"is_main"`
}

func TestImageFlow(t *testing.T) {
	suite := setupSuite(t)
	token := suite.login(t, "admin@test.local", "admin123")

	created := suite.createProperty(t, token, validProperty("AP-300", "Gallery host"))
	propertyID := fmt.Sprintf("%d", created.Property.ID)

	var first, second imagePayload

	t.Run("first upload becomes main", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/images", "image", "a.png", pngBytes,
			map[string]string{"property_id": propertyID, "sort_order": "1"}, token)
		require.Equal(t, http.StatusCreated, w.Code, "upload failed: %s", w.Body.String())
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &first))
		assert.True(t, first.IsMain)
	})

	t.Run("upload as main demotes the previous one", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/images", "image", "b.png", pngBytes,
			map[string]string{"property_id": propertyID, "sort_order": "2", "is_main": "true"}, token)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &second))
		assert.True(t, second.IsMain)

		images := suite.listImages(t, propertyID)
		require.Len(t, images, 2)
		assert.Equal(t, second.ID, mainImageID(t, images))
	})

	t.Run("set main switches back", func(t *testing.T) {
		w := suite.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/properties/%s/images/%d/main", propertyID, first.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		images := suite.listImages(t, propertyID)
		assert.Equal(t, first.ID, mainImageID(t, images))
	})

	t.Run("deleting the main image promotes the next", func(t *testing.T) {
		w := suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/images/%d", first.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			DeletedFiles int `json:"deleted_files"`
			FailedFiles  int `json:"failed_files"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &res))
		assert.Equal(t, 1, res.DeletedFiles)
		assert.Zero(t, res.FailedFiles)

		images := suite.listImages(t, propertyID)
		require.Len(t, images, 1)
		assert.Equal(t, second.ID, mainImageID(t, images))
	})

	t.Run("non-image uploads are rejected", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/images", "image", "notes.txt", []byte("words"),
			map[string]string{"property_id": propertyID}, token)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("unknown property is rejected", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/images", "image", "c.png", pngBytes,
			map[string]string{"property_id": "99999"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_PROPERTY_ID", resp.Error.Code)
	})
}

func (s *testSuite) listImages(t *testing.T, propertyID string) []imagePayload {
	t.Helper()
	w := s.request(t, http.MethodGet, "/api/v1/properties/"+propertyID+"/images", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var images []imagePayload
	require.NoError(t, json.Unmarshal(parse(t, w).Data, &images))
	return images
}

func mainImageID(t *testing.T, images []imagePayload) int64 {
	t.Helper()
	var mainID int64
	mains := 0
	for _, img := range images {
		if img.IsMain {
			mains++
			mainID = img.ID
		}
	}
	require.Equal(t, 1, mains, "expected exactly one main image")
	return mainID
}

func TestDocumentFlow(t *testing.T) {
	suite := setupSuite(t)
	token := suite.login(t, "admin@test.local", "admin123")

	created := suite.createProperty(t, token, validProperty("AP-400", "With floor plan"))
	propertyID := fmt.Sprintf("%d", created.Property.ID)

	var docID int64

	t.Run("upload PDF", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/documents", "document", "floor-plan.pdf", pdfBytes,
			map[string]string{"property_id": propertyID}, token)
		require.Equal(t, http.StatusCreated, w.Code, "upload failed: %s", w.Body.String())

		var doc struct {
			ID           int64  `json:"id"`
			OriginalName string `json:"original_name"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &doc))
		assert.Equal(t, "floor-plan.pdf", doc.OriginalName)
		docID = doc.ID
	})

	t.Run("serve PDF inline", func(t *testing.T) {
		w := suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
		assert.Equal(t, pdfBytes, w.Body.Bytes())
	})

	t.Run("spoofed extension is rejected", func(t *testing.T) {
		w := suite.upload(t, "/api/v1/documents", "document", "fake.pdf", []byte("plain text"),
			map[string]string{"property_id": propertyID}, token)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := suite.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", docID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = suite.request(t, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestContentFlow(t *testing.T) {
	suite := setupSuite(t)
	token := suite.login(t, "admin@test.local", "admin123")

	t.Run("create pages", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/pages", gin.H{
			"slug": "about", "title": "About us", "body": "Since 2009.", "published": true,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, "create page failed: %s", w.Body.String())

		w = suite.request(t, http.MethodPost, "/api/v1/pages", gin.H{
			"slug": "drafts", "title": "Draft page",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/pages", gin.H{
			"slug": "about", "title": "Another about",
		}, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DUPLICATE_SLUG", resp.Error.Code)
	})

	t.Run("public sees only published pages", func(t *testing.T) {
		w := suite.request(t, http.MethodGet, "/api/v1/pages", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var pages []struct {
			Slug string `json:"slug"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &pages))
		require.Len(t, pages, 1)
		assert.Equal(t, "about", pages[0].Slug)

		w = suite.request(t, http.MethodGet, "/api/v1/pages/drafts", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("service items", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/services", gin.H{
			"title": "Valuations", "sort_order": 1,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, "create service failed: %s", w.Body.String())

		inactive := false
		w = suite.request(t, http.MethodPost, "/api/v1/services", gin.H{
			"title": "Retired offer", "active": inactive,
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		w = suite.request(t, http.MethodGet, "/api/v1/services", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var items []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Valuations", items[0].Title)
	})

	t.Run("validation details", func(t *testing.T) {
		w := suite.request(t, http.MethodPost, "/api/v1/pages", gin.H{"body": "no slug or title"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotNil(t, resp.Error.Details)
	})
}
