// Package backendtest provides an in-memory backend for tests. Every call is
// counted so tests can assert that validation happens before any backend work.
package backendtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"armenu-api/apperr"
	"armenu-api/models"
)

type Fake struct {
	mu sync.Mutex

	managers    map[string]*models.Manager
	passwords   map[string]string // email -> password
	restaurants map[string]*models.Restaurant
	products    map[string]*models.Product
	selections  map[string]string
	objects     map[string][]byte
	orphans     []models.OrphanedAsset
	nextID      int

	calls map[string]int

	// FailRemove makes Remove fail for the given "bucket/path" keys
	FailRemove map[string]error
	// FailCreateProduct makes CreateProduct fail
	FailCreateProduct error
	// FailUpload makes Upload fail for paths containing the key
	FailUpload map[string]error
}

func New() *Fake {
	return &Fake{
		managers:    map[string]*models.Manager{},
		passwords:   map[string]string{},
		restaurants: map[string]*models.Restaurant{},
		products:    map[string]*models.Product{},
		selections:  map[string]string{},
		objects:     map[string][]byte{},
		calls:       map[string]int{},
		FailRemove:  map[string]error{},
		FailUpload:  map[string]error{},
	}
}

func (f *Fake) record(name string) {
	f.calls[name]++
}

func (f *Fake) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// Calls returns how many times the named method was called, or all calls for "".
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != "" {
		return f.calls[name]
	}
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// ── seeding ─────────────────────────────────────────────────────────────────

func (f *Fake) AddManager(email, password string) *models.Manager {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &models.Manager{ID: f.id("m"), Email: strings.ToLower(email)}
	f.managers[m.ID] = m
	f.passwords[m.Email] = password
	return m
}

func (f *Fake) AddRestaurant(managerID, name string, status models.RestaurantStatus) *models.Restaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &models.Restaurant{ID: f.id("r"), ManagerID: managerID, Name: name, Status: status}
	f.restaurants[r.ID] = r
	cp := *r
	return &cp
}

func (f *Fake) AddProduct(p models.Product) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = f.id("p")
	}
	f.products[p.ID] = &p
	cp := p
	return &cp
}

func (f *Fake) PutObject(bucket, path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+path] = data
}

func (f *Fake) HasObject(bucket, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[bucket+"/"+path]
	return ok
}

func (f *Fake) ObjectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *Fake) Status(restaurantID string) models.RestaurantStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.restaurants[restaurantID]; ok {
		return r.Status
	}
	return ""
}

// ── Identity ────────────────────────────────────────────────────────────────

func (f *Fake) VerifyCredentials(ctx context.Context, email, password string) (*models.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VerifyCredentials")
	return f.verify(email, password)
}

func (f *Fake) verify(email, password string) (*models.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, apperr.Authentication("invalid email or password")
	}
	for _, m := range f.managers {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.Authentication("invalid email or password")
}

func (f *Fake) RegisterManager(ctx context.Context, m *models.Manager, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RegisterManager")
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if _, ok := f.passwords[m.Email]; ok {
		return apperr.Validation("email already registered")
	}
	m.ID = f.id("m")
	cp := *m
	f.managers[m.ID] = &cp
	f.passwords[m.Email] = password
	return nil
}

func (f *Fake) GetManager(ctx context.Context, id string) (*models.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetManager")
	m, ok := f.managers[id]
	if !ok {
		return nil, apperr.NotFound("manager not found")
	}
	cp := *m
	return &cp, nil
}

func (f *Fake) UpdateManager(ctx context.Context, id string, upd models.ManagerUpdate) (*models.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateManager")
	m, ok := f.managers[id]
	if !ok {
		return nil, apperr.NotFound("manager not found")
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Username != nil {
		m.Username = *upd.Username
	}
	if upd.PhoneNumber != nil {
		m.PhoneNumber = *upd.PhoneNumber
	}
	cp := *m
	return &cp, nil
}

// ── Restaurants ─────────────────────────────────────────────────────────────

func (f *Fake) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetRestaurant")
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperr.NotFound("restaurant not found")
	}
	cp := *r
	return &cp, nil
}

func (f *Fake) ListRestaurantsByManager(ctx context.Context, managerID string) ([]models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListRestaurantsByManager")
	out := []models.Restaurant{}
	for _, r := range f.restaurants {
		if r.ManagerID == managerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Fake) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateRestaurant")
	if r.ID == "" {
		r.ID = f.id("r")
	}
	if r.Status == "" {
		r.Status = models.StatusAvailable
	}
	cp := *r
	f.restaurants[r.ID] = &cp
	return nil
}

func (f *Fake) UpdateRestaurant(ctx context.Context, id string, upd models.RestaurantUpdate) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateRestaurant")
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperr.NotFound("restaurant not found")
	}
	if upd.Name != nil {
		r.Name = *upd.Name
	}
	if upd.Description != nil {
		r.Description = *upd.Description
	}
	if upd.City != nil {
		r.City = *upd.City
	}
	if upd.Commune != nil {
		r.Commune = *upd.Commune
	}
	if upd.Street != nil {
		r.Street = *upd.Street
	}
	if upd.StreetNumber != nil {
		n := *upd.StreetNumber
		r.StreetNumber = &n
	}
	if upd.LogoPath != nil {
		r.LogoPath = *upd.LogoPath
	}
	cp := *r
	return &cp, nil
}

func (f *Fake) DeleteRestaurant(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteRestaurant")
	if _, ok := f.restaurants[id]; !ok {
		return apperr.NotFound("restaurant not found")
	}
	delete(f.restaurants, id)
	for pid, p := range f.products {
		if p.RestaurantID == id {
			delete(f.products, pid)
		}
	}
	for mid, rid := range f.selections {
		if rid == id {
			delete(f.selections, mid)
		}
	}
	return nil
}

func (f *Fake) UpdateRestaurantStatusWithAuth(ctx context.Context, restaurantID string, status models.RestaurantStatus, email, password string) (*models.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateRestaurantStatusWithAuth")
	m, err := f.verify(email, password)
	if err != nil {
		return nil, err
	}
	r, ok := f.restaurants[restaurantID]
	if !ok {
		return nil, apperr.NotFound("restaurant not found")
	}
	if r.ManagerID != m.ID {
		return nil, apperr.Authentication("credentials do not belong to the restaurant's manager")
	}
	r.Status = status
	cp := *r
	return &cp, nil
}

// ── Products ────────────────────────────────────────────────────────────────

func (f *Fake) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProduct")
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *Fake) ListProductsByRestaurant(ctx context.Context, restaurantID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProductsByRestaurant")
	out := []models.Product{}
	for _, p := range f.products {
		if p.RestaurantID == restaurantID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Fake) CreateProduct(ctx context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProduct")
	if f.FailCreateProduct != nil {
		return f.FailCreateProduct
	}
	if p.ID == "" {
		p.ID = f.id("p")
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *Fake) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProduct")
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Rating != nil {
		v := *upd.Rating
		p.Rating = &v
	}
	cp := *p
	return &cp, nil
}

func (f *Fake) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProduct")
	if _, ok := f.products[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.products, id)
	return nil
}

// ── Selections ──────────────────────────────────────────────────────────────

func (f *Fake) GetSelection(ctx context.Context, managerID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetSelection")
	id, ok := f.selections[managerID]
	if !ok {
		return "", apperr.NotFound("restaurant selection not found")
	}
	return id, nil
}

func (f *Fake) SaveSelection(ctx context.Context, managerID, restaurantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveSelection")
	f.selections[managerID] = restaurantID
	return nil
}

func (f *Fake) ClearSelection(ctx context.Context, managerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClearSelection")
	delete(f.selections, managerID)
	return nil
}

// ── Orphans ─────────────────────────────────────────────────────────────────

func (f *Fake) RecordOrphan(ctx context.Context, bucket, path, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RecordOrphan")
	f.orphans = append(f.orphans, models.OrphanedAsset{ID: uint(len(f.orphans) + 1), Bucket: bucket, Path: path, Reason: reason, Attempts: 1})
	return nil
}

func (f *Fake) ListOrphans(ctx context.Context, limit int) ([]models.OrphanedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListOrphans")
	out := slices.Clone(f.orphans)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Fake) ResolveOrphan(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResolveOrphan")
	f.orphans = slices.DeleteFunc(f.orphans, func(o models.OrphanedAsset) bool { return o.ID == id })
	return nil
}

func (f *Fake) RetryOrphanLater(ctx context.Context, id uint, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RetryOrphanLater")
	for i := range f.orphans {
		if f.orphans[i].ID == id {
			f.orphans[i].Attempts++
			f.orphans[i].Reason = reason
		}
	}
	return nil
}

// ── ObjectStorage ───────────────────────────────────────────────────────────

func (f *Fake) Upload(ctx context.Context, bucket, path string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Upload")
	for key, err := range f.FailUpload {
		if strings.Contains(path, key) {
			return "", err
		}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", apperr.Backend("failed to store file", err)
	}
	f.objects[bucket+"/"+path] = buf.Bytes()
	return path, nil
}

func (f *Fake) PublicURL(bucket, path string) string {
	if path == "" {
		return ""
	}
	return "https://storage.test/" + bucket + "/" + path
}

func (f *Fake) Remove(ctx context.Context, bucket, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Remove")
	if err, ok := f.FailRemove[bucket+"/"+path]; ok {
		return err
	}
	delete(f.objects, bucket+"/"+path)
	return nil
}
