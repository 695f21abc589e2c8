package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/backend/backendtest"
	"armenu-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*Catalog, *backendtest.Fake, *models.Manager) {
	t.Helper()
	fake := backendtest.New()
	owner := fake.AddManager("owner@example.com", "secret123")
	c := New(fake, fake, fake, fake)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c, fake, owner
}

func upload(name, body string) *Upload {
	return &Upload{Filename: name, Reader: strings.NewReader(body)}
}

func TestCreateRestaurant(t *testing.T) {
	c, fake, owner := newCatalog(t)
	ctx := context.Background()

	r, err := c.CreateRestaurant(ctx, owner.ID, NewRestaurant{Name: " La Picá ", City: "Santiago", Street: "Av. Italia"}, upload("Logo.PNG", "png"))
	require.NoError(t, err)

	assert.Equal(t, "La Picá", r.Name)
	assert.Equal(t, models.StatusAvailable, r.Status)
	assert.Equal(t, "public/"+r.ID+"-1700000000000.png", r.LogoPath)
	assert.Equal(t, "https://storage.test/logos/"+r.LogoPath, r.LogoURL)
	assert.True(t, fake.HasObject(backend.BucketLogos, r.LogoPath))
}

func TestCreateRestaurant_Validation(t *testing.T) {
	c, fake, owner := newCatalog(t)
	neg := -1

	tests := []struct {
		name string
		in   NewRestaurant
		logo *Upload
	}{
		{"missing name", NewRestaurant{City: "Santiago", Street: "Italia"}, nil},
		{"blank city", NewRestaurant{Name: "x", City: "  ", Street: "Italia"}, nil},
		{"missing street", NewRestaurant{Name: "x", City: "Santiago"}, nil},
		{"negative number", NewRestaurant{Name: "x", City: "Santiago", Street: "Italia", StreetNumber: &neg}, nil},
		{"logo not an image", NewRestaurant{Name: "x", City: "Santiago", Street: "Italia"}, upload("logo.exe", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateRestaurant(context.Background(), owner.ID, tt.in, tt.logo)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
	assert.Zero(t, fake.Calls(""))
}

func TestUpdateRestaurant_ReplacesLogo(t *testing.T) {
	c, fake, owner := newCatalog(t)
	ctx := context.Background()
	r, err := c.CreateRestaurant(ctx, owner.ID, NewRestaurant{Name: "A", City: "B", Street: "C"}, upload("a.png", "old"))
	require.NoError(t, err)
	oldLogo := r.LogoPath

	c.now = func() time.Time { return time.Unix(1700000100, 0) }
	name := "Nuevo"
	got, err := c.UpdateRestaurant(ctx, owner.ID, r.ID, models.RestaurantUpdate{Name: &name}, upload("b.jpg", "new"))
	require.NoError(t, err)

	assert.Equal(t, "Nuevo", got.Name)
	assert.NotEqual(t, oldLogo, got.LogoPath)
	assert.True(t, fake.HasObject(backend.BucketLogos, got.LogoPath))
	assert.False(t, fake.HasObject(backend.BucketLogos, oldLogo))
}

func TestUpdateRestaurant_Rejects(t *testing.T) {
	c, fake, owner := newCatalog(t)
	r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
	empty := ""

	_, err := c.UpdateRestaurant(context.Background(), owner.ID, r.ID, models.RestaurantUpdate{City: &empty}, nil)
	assert.True(t, apperr.IsValidation(err))

	name := "x"
	_, err = c.UpdateRestaurant(context.Background(), "intruder", r.ID, models.RestaurantUpdate{Name: &name}, nil)
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, fake.Calls("UpdateRestaurant"))
}

func TestDeleteRestaurant_RemovesAllFiles(t *testing.T) {
	c, fake, owner := newCatalog(t)
	ctx := context.Background()
	r, err := c.CreateRestaurant(ctx, owner.ID, NewRestaurant{Name: "A", City: "B", Street: "C"}, upload("a.png", "logo"))
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, owner.ID, r.ID, NewProduct{Name: "Pisco", Price: 5, Category: "Bebidas"}, ProductFiles{
		Image:     upload("p.png", "img"),
		ModelGLB:  upload("p.glb", "glb"),
		ModelUSDZ: upload("p.usdz", "usdz"),
	})
	require.NoError(t, err)
	require.Equal(t, 4, fake.ObjectCount())

	require.NoError(t, c.DeleteRestaurant(ctx, owner.ID, r.ID))

	assert.Zero(t, fake.ObjectCount())
	_, err = fake.GetRestaurant(ctx, r.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteRestaurant_OtherManager(t *testing.T) {
	c, fake, owner := newCatalog(t)
	r := fake.AddRestaurant(owner.ID, "A", models.StatusNotAvailable)

	err := c.DeleteRestaurant(context.Background(), "intruder", r.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, models.StatusNotAvailable, fake.Status(r.ID))
}

func TestCreateProduct(t *testing.T) {
	c, fake, owner := newCatalog(t)
	r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)

	p, err := c.CreateProduct(context.Background(), owner.ID, r.ID,
		NewProduct{Name: "Completo", Price: 3.5, Category: "Platos principales"},
		ProductFiles{ModelGLB: upload("completo.GLB", "glb")})
	require.NoError(t, err)

	assert.Equal(t, r.ID+"/"+p.ID+"/model.glb", p.ModelGLBPath)
	assert.Equal(t, "https://storage.test/models/"+p.ModelGLBPath, p.ModelGLBURL)
	assert.Empty(t, p.ImageURL)
	assert.True(t, fake.HasObject(backend.BucketModels, p.ModelGLBPath))
}

func TestCreateProduct_ValidatesBeforeBackend(t *testing.T) {
	c, fake, owner := newCatalog(t)
	r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
	before := fake.Calls("")

	tests := []struct {
		name  string
		in    NewProduct
		files ProductFiles
	}{
		{"zero price", NewProduct{Name: "x", Category: "y"}, ProductFiles{}},
		{"negative price", NewProduct{Name: "x", Price: -2, Category: "y"}, ProductFiles{}},
		{"infinite price", NewProduct{Name: "x", Price: math.Inf(1), Category: "y"}, ProductFiles{}},
		{"nan price", NewProduct{Name: "x", Price: math.NaN(), Category: "y"}, ProductFiles{}},
		{"blank name", NewProduct{Name: " ", Price: 1, Category: "y"}, ProductFiles{}},
		{"missing category", NewProduct{Name: "x", Price: 1}, ProductFiles{}},
		{"usdz as glb", NewProduct{Name: "x", Price: 1, Category: "y"}, ProductFiles{ModelGLB: upload("m.usdz", "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateProduct(context.Background(), owner.ID, r.ID, tt.in, tt.files)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
	assert.Equal(t, before, fake.Calls(""))
}

func TestCreateProduct_RollsBackUploads(t *testing.T) {
	ctx := context.Background()

	t.Run("insert fails", func(t *testing.T) {
		c, fake, owner := newCatalog(t)
		r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
		fake.FailCreateProduct = apperr.Backend("failed to create product", errors.New("disk full"))

		_, err := c.CreateProduct(ctx, owner.ID, r.ID, NewProduct{Name: "x", Price: 1, Category: "y"},
			ProductFiles{Image: upload("i.png", "i"), ModelUSDZ: upload("m.usdz", "m")})

		assert.Equal(t, apperr.KindBackend, apperr.KindOf(err))
		assert.Zero(t, fake.ObjectCount())
	})

	t.Run("second upload fails", func(t *testing.T) {
		c, fake, owner := newCatalog(t)
		r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
		fake.FailUpload["model.usdz"] = apperr.Backend("failed to store file", errors.New("quota"))

		_, err := c.CreateProduct(ctx, owner.ID, r.ID, NewProduct{Name: "x", Price: 1, Category: "y"},
			ProductFiles{Image: upload("i.png", "i"), ModelGLB: upload("m.glb", "g"), ModelUSDZ: upload("m.usdz", "m")})

		require.Error(t, err)
		assert.Zero(t, fake.ObjectCount())
		assert.Zero(t, fake.Calls("CreateProduct"))
	})
}

func TestUpdateProduct(t *testing.T) {
	c, fake, owner := newCatalog(t)
	r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
	p := fake.AddProduct(models.Product{RestaurantID: r.ID, Name: "x", Price: 1, Category: "y"})
	ctx := context.Background()

	price := 2.5
	got, err := c.UpdateProduct(ctx, owner.ID, p.ID, models.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Price)
	assert.Equal(t, "x", got.Name)

	bad := 6.0
	_, err = c.UpdateProduct(ctx, owner.ID, p.ID, models.ProductUpdate{Rating: &bad})
	assert.True(t, apperr.IsValidation(err))

	zero := 0.0
	_, err = c.UpdateProduct(ctx, owner.ID, p.ID, models.ProductUpdate{Price: &zero})
	assert.True(t, apperr.IsValidation(err))

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err = c.UpdateProduct(ctx, owner.ID, p.ID, models.ProductUpdate{Price: &v})
		assert.True(t, apperr.IsValidation(err), "price %v", v)
		_, err = c.UpdateProduct(ctx, owner.ID, p.ID, models.ProductUpdate{Rating: &v})
		assert.True(t, apperr.IsValidation(err), "rating %v", v)
	}
	assert.Equal(t, 1, fake.Calls("UpdateProduct"))

	_, err = c.UpdateProduct(ctx, "intruder", p.ID, models.ProductUpdate{Price: &price})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteProduct_RecordsOrphans(t *testing.T) {
	c, fake, owner := newCatalog(t)
	ctx := context.Background()
	r := fake.AddRestaurant(owner.ID, "A", models.StatusAvailable)
	p := fake.AddProduct(models.Product{
		RestaurantID:  r.ID,
		Name:          "x",
		Price:         1,
		Category:      "y",
		ImagePath:     "products/img.png",
		ModelGLBPath:  "m.glb",
		ModelUSDZPath: "m.usdz",
	})
	fake.PutObject(backend.BucketLogos, p.ImagePath, []byte("i"))
	fake.PutObject(backend.BucketModels, p.ModelGLBPath, []byte("g"))
	fake.PutObject(backend.BucketModels, p.ModelUSDZPath, []byte("u"))
	fake.FailRemove["models/m.usdz"] = errors.New("timeout")

	require.NoError(t, c.DeleteProduct(ctx, owner.ID, p.ID))

	_, err := fake.GetProduct(ctx, p.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.False(t, fake.HasObject(backend.BucketLogos, p.ImagePath))
	assert.False(t, fake.HasObject(backend.BucketModels, p.ModelGLBPath))

	orphans, err := fake.ListOrphans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "m.usdz", orphans[0].Path)
	assert.Equal(t, backend.BucketModels, orphans[0].Bucket)
}

func TestSweepOrphans(t *testing.T) {
	c, fake, _ := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, fake.RecordOrphan(ctx, backend.BucketModels, "a.glb", "timeout"))
	require.NoError(t, fake.RecordOrphan(ctx, backend.BucketModels, "b.glb", "timeout"))
	fake.FailRemove["models/b.glb"] = errors.New("still down")

	resolved, err := c.SweepOrphans(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	left, err := fake.ListOrphans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b.glb", left[0].Path)
	assert.Equal(t, 2, left[0].Attempts)
	assert.Equal(t, "still down", left[0].Reason)
}
