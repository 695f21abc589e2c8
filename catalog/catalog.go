// Package catalog manages restaurants and their products, including the
// stored logo, image and 3D model files that belong to them.
package catalog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	imageExts = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".svg"}
	glbExts   = []string{".glb", ".gltf"}
	usdzExts  = []string{".usdz"}
)

// Upload is a file supplied by the manager
type Upload struct {
	Filename string
	Reader   io.Reader
}

func (u *Upload) ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

type Catalog struct {
	restaurants backend.Restaurants
	products    backend.Products
	storage     backend.ObjectStorage
	orphans     backend.Orphans
	now         func() time.Time
}

func New(restaurants backend.Restaurants, products backend.Products, storage backend.ObjectStorage, orphans backend.Orphans) *Catalog {
	return &Catalog{
		restaurants: restaurants,
		products:    products,
		storage:     storage,
		orphans:     orphans,
		now:         time.Now,
	}
}

// asset is a stored object owned by a restaurant or product
type asset struct {
	bucket string
	path   string
}

func checkExt(u *Upload, field string, allowed []string) error {
	if u == nil {
		return nil
	}
	if !slices.Contains(allowed, u.ext()) {
		return apperr.Validation(fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	}
	return nil
}

// ownedRestaurant loads a restaurant and hides it from anyone but its manager
func (c *Catalog) ownedRestaurant(ctx context.Context, managerID, restaurantID string) (*models.Restaurant, error) {
	r, err := c.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if r.ManagerID != managerID {
		return nil, apperr.NotFound("restaurant not found")
	}
	return r, nil
}

// removeAssets deletes objects concurrently. Failures do not stop the others;
// each one is recorded as an orphan so the sweep can retry it.
func (c *Catalog) removeAssets(ctx context.Context, assets []asset) []asset {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed []asset
	)
	g.SetLimit(4)
	for _, a := range assets {
		g.Go(func() error {
			err := c.storage.Remove(ctx, a.bucket, a.path)
			if err != nil {
				mu.Lock()
				failed = append(failed, a)
				mu.Unlock()
				c.recordOrphan(ctx, a, err)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logrus.WithError(err).WithField("failed", len(failed)).Warn("some stored files could not be removed")
	}
	return failed
}

func (c *Catalog) recordOrphan(ctx context.Context, a asset, cause error) {
	log := logrus.WithFields(logrus.Fields{"bucket": a.bucket, "path": a.path})
	if err := c.orphans.RecordOrphan(ctx, a.bucket, a.path, cause.Error()); err != nil {
		log.WithError(err).Error("failed to record orphaned file")
		return
	}
	log.WithError(cause).Warn("stored file orphaned")
}

// SweepOrphans retries removal of previously orphaned files
func (c *Catalog) SweepOrphans(ctx context.Context, limit int) (resolved int, err error) {
	orphans, err := c.orphans.ListOrphans(ctx, limit)
	if err != nil {
		return 0, err
	}
	for _, o := range orphans {
		if rmErr := c.storage.Remove(ctx, o.Bucket, o.Path); rmErr != nil {
			if err := c.orphans.RetryOrphanLater(ctx, o.ID, rmErr.Error()); err != nil {
				return resolved, err
			}
			continue
		}
		if err := c.orphans.ResolveOrphan(ctx, o.ID); err != nil {
			return resolved, err
		}
		resolved++
	}
	if len(orphans) > 0 {
		logrus.WithFields(logrus.Fields{"resolved": resolved, "checked": len(orphans)}).Info("orphaned files swept")
	}
	return resolved, nil
}

// uploadAll stores every upload, or none: on failure the files already
// stored are removed again.
func (c *Catalog) uploadAll(ctx context.Context, uploads map[asset]*Upload) ([]asset, error) {
	var stored []asset
	for a, u := range uploads {
		if u == nil {
			continue
		}
		if _, err := c.storage.Upload(ctx, a.bucket, a.path, u.Reader); err != nil {
			c.removeAssets(ctx, stored)
			return nil, err
		}
		stored = append(stored, a)
	}
	return stored, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func uuidString() string {
	return uuid.NewString()
}
