package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProducts struct {
	mu       sync.Mutex
	items    map[string]models.Product
	order    []string
	failList bool
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]models.Product{}}
	for _, p := range ps {
		f.items[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeProducts) List(ctx context.Context) ([]models.Product, error) {
	if f.failList {
		return nil, errors.New("scylla down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, id := range f.order {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	all, _ := f.List(ctx)
	out := []models.Product{}
	for _, p := range all {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(ctx context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, p.ID)
	return nil
}

// Product e Invalidate fazem o fake servir também de Catalog.
func (f *fakeProducts) Product(ctx context.Context, id string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Invalidate(ctx context.Context, id string) {}

type fakeNames map[string]string

func (f fakeNames) FullNames(ctx context.Context, ids []string) (map[string]string, error) {
	return f, nil
}

type fakeSearch struct {
	results []models.Product
	err     error
	indexed chan string
}

func (f *fakeSearch) IndexProduct(ctx context.Context, p models.Product) error {
	f.indexed <- p.ID
	return nil
}
func (f *fakeSearch) DeleteProduct(ctx context.Context, id string) error {
	f.indexed <- "-" + id
	return nil
}
func (f *fakeSearch) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	return f.results, f.err
}

type fakeUploader struct{ objectName string }

func (f *fakeUploader) Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	if file.Header.Get("Content-Type") != "image/png" {
		return "", services.ErrInvalidImage
	}
	f.objectName = objectName
	return "http://minio/feira/" + objectName + ".png", nil
}

func newRouter(h *Handler, userID string) *gin.Engine {
	r := gin.New()
	asUser := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_type", models.UserTypeFarmer)
		c.Next()
	}
	r.GET("/products", h.GetAllProducts)
	r.GET("/products/search", h.SearchProducts)
	r.GET("/products/:id", h.GetProductByID)
	r.GET("/categories", h.GetCategories)
	f := r.Group("/farmer", asUser)
	f.GET("/products", h.GetMyProducts)
	f.POST("/products", h.CreateProduct)
	f.PUT("/products/:id", h.UpdateProduct)
	f.DELETE("/products/:id", h.DeleteProduct)
	f.POST("/products/image", h.UploadProductImage)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var tomato = models.Product{ID: "p1", FarmerID: "f1", Name: "Tomate", Description: "Orgânico", Price: 3.5, Unit: "kg", Category: "Legumes"}
var lettuce = models.Product{ID: "p2", FarmerID: "f2", Name: "Alface", Price: 2, Unit: "unidade", Category: "Verduras"}

func TestGetAllProductsAddsFarmerFirstName(t *testing.T) {
	store := newFakeProducts(tomato, lettuce)
	h := &Handler{Products: store, Catalog: store, Names: fakeNames{"f1": "João da Silva"}}

	w := do(newRouter(h, "f1"), http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "João", got[0].FarmerName)
	assert.Empty(t, got[1].FarmerName)
}

func TestGetProductByID(t *testing.T) {
	store := newFakeProducts(tomato)
	r := newRouter(&Handler{Products: store, Catalog: store}, "f1")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/products/p1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/products/nope", "").Code)
}

func TestSearchProducts(t *testing.T) {
	store := newFakeProducts(tomato, lettuce)

	t.Run("elasticsearch", func(t *testing.T) {
		s := &fakeSearch{results: []models.Product{lettuce}}
		w := do(newRouter(&Handler{Products: store, Catalog: store, Search: s}, "f1"), http.MethodGet, "/products/search?q=tomate", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Alface")
	})

	t.Run("fallback on elastic error", func(t *testing.T) {
		s := &fakeSearch{err: errors.New("down")}
		w := do(newRouter(&Handler{Products: store, Catalog: store, Search: s}, "f1"), http.MethodGet, "/products/search?q=ORG%C3%82N", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0].ID)
	})

	t.Run("without elastic", func(t *testing.T) {
		w := do(newRouter(&Handler{Products: store, Catalog: store}, "f1"), http.MethodGet, "/products/search?q=verduras", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "p2")
	})

	t.Run("missing query", func(t *testing.T) {
		w := do(newRouter(&Handler{Products: store, Catalog: store}, "f1"), http.MethodGet, "/products/search", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateProductValidation(t *testing.T) {
	store := newFakeProducts()
	r := newRouter(&Handler{Products: store, Catalog: store}, "f1")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"name":"Cenoura","price":4.2,"unit":"kg","category":"Legumes"}`, http.StatusCreated},
		{"price as text with comma", `{"name":"Cenoura","price":"4,20","unit":"kg","category":"Legumes"}`, http.StatusCreated},
		{"default unit", `{"name":"Ovo caipira","price":1,"category":"Outros"}`, http.StatusCreated},
		{"zero price", `{"name":"Brinde","price":0,"category":"Outros"}`, http.StatusCreated},
		{"missing name", `{"name":"  ","price":1,"category":"Outros"}`, http.StatusBadRequest},
		{"missing price", `{"name":"X","category":"Outros"}`, http.StatusBadRequest},
		{"negative price", `{"name":"X","price":-1,"category":"Outros"}`, http.StatusBadRequest},
		{"bad price text", `{"name":"X","price":"abc","category":"Outros"}`, http.StatusBadRequest},
		{"bad unit", `{"name":"X","price":1,"unit":"litro","category":"Outros"}`, http.StatusBadRequest},
		{"bad category", `{"name":"X","price":1,"category":"Laticínios"}`, http.StatusBadRequest},
		{"bad date", `{"name":"X","price":1,"category":"Outros","harvest_date":"ontem"}`, http.StatusBadRequest},
		{"dates", `{"name":"X","price":1,"category":"Outros","harvest_date":"2025-03-01","expiration_date":"2025-03-10T00:00:00Z"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/farmer/products", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCreateProductIndexesAndOwns(t *testing.T) {
	store := newFakeProducts()
	s := &fakeSearch{indexed: make(chan string, 1)}
	r := newRouter(&Handler{Products: store, Catalog: store, Search: s}, "f9")

	w := do(r, http.MethodPost, "/farmer/products", `{"name":"Cenoura","price":"4,20","unit":"kg","category":"Legumes"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "f9", p.FarmerID)
	assert.InDelta(t, 4.2, p.Price, 1e-9)
	assert.NotEmpty(t, p.ID)

	select {
	case id := <-s.indexed:
		assert.Equal(t, p.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("produto não indexado")
	}
}

func TestUpdateAndDeleteOnlyOwnProducts(t *testing.T) {
	store := newFakeProducts(tomato, lettuce)
	r := newRouter(&Handler{Products: store, Catalog: store}, "f1")

	w := do(r, http.MethodPut, "/farmer/products/p1", `{"name":"Tomate italiano","price":5,"unit":"kg","category":"Legumes"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := store.Product(context.Background(), "p1")
	assert.Equal(t, "Tomate italiano", got.Name)
	assert.Equal(t, "f1", got.FarmerID)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/farmer/products/p2", `{"name":"x","price":1,"category":"Outros"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/farmer/products/p2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/farmer/products/nope", "").Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/farmer/products/p1", "").Code)
	_, err := store.Product(context.Background(), "p1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetMyProducts(t *testing.T) {
	store := newFakeProducts(tomato, lettuce)
	w := do(newRouter(&Handler{Products: store, Catalog: store}, "f2"), http.MethodGet, "/farmer/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestGetCategories(t *testing.T) {
	w := do(newRouter(&Handler{}, "f1"), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Verduras")
}

func multipartBody(t *testing.T, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="foto.png"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadProductImage(t *testing.T) {
	up := &fakeUploader{}
	r := newRouter(&Handler{Images: up}, "f1")

	body, ct := multipartBody(t, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/farmer/products/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(up.objectName, "product_images/f1/"))
	assert.Contains(t, w.Body.String(), "image_url")

	body, ct = multipartBody(t, "application/pdf")
	req = httptest.NewRequest(http.MethodPost, "/farmer/products/image", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadProductImageWithoutStorage(t *testing.T) {
	body, ct := multipartBody(t, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/farmer/products/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	newRouter(&Handler{}, "f1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
