// Package hostnames allocates unique asset hostnames from per pair counter
// rows. A hostname is a country prefix, a category postfix and a zero padded
// sequence number, e.g. POLSV00042.
package hostnames

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/assetd-io/assetd/internal/models"
)

var (
	// ErrNoCountryPrefix means the asset's owner country has no configured
	// hostname prefix. Allocation fails instead of guessing a default.
	ErrNoCountryPrefix = errors.New("no hostname prefix configured for country")
	// ErrNoCategoryCode means the asset's model category has no code to use
	// as the hostname postfix.
	ErrNoCategoryCode = errors.New("asset model category has no code")
)

// countryPrefixes maps ISO 3166-1 alpha-2 country codes to the three letter
// prefixes hostnames start with.
var countryPrefixes = map[string]string{
	"pl": "POL",
	"cz": "CZE",
	"sk": "SVK",
	"de": "DEU",
	"ua": "UKR",
	"us": "USA",
	"gb": "GBR",
	"nl": "NLD",
	"se": "SWE",
}

// PrefixForCountry resolves the hostname prefix for an ISO country code.
func PrefixForCountry(country string) (string, error) {
	prefix, ok := countryPrefixes[strings.ToLower(country)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoCountryPrefix, country)
	}
	return prefix, nil
}

type Allocator struct {
	logger *zap.SugaredLogger
}

func NewAllocator(logger *zap.SugaredLogger) *Allocator {
	return &Allocator{logger: logger}
}

// Next returns the next free hostname for the (prefix, postfix) pair and
// advances the counter. It must be called inside the transaction that saves
// the asset so a failed save rolls the counter back. The counter row is read
// under a row lock so concurrent allocations for the same pair serialize
// instead of racing read-then-write.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, prefix, postfix string) (string, error) {
	if prefix == "" {
		return "", ErrNoCountryPrefix
	}
	if postfix == "" {
		return "", ErrNoCategoryCode
	}

	db := tx.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq models.HostnameSequence
	res := db.Where("prefix = ? AND postfix = ?", prefix, postfix).First(&seq)
	if res.Error != nil {
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", res.Error
		}
		seq = models.HostnameSequence{Prefix: prefix, Postfix: postfix}
	}

	seq.Counter++
	if res := tx.WithContext(ctx).Save(&seq); res.Error != nil {
		return "", res.Error
	}

	hostname := seq.Hostname()
	a.logger.Debugf("allocated hostname [ %s ] for pair (%s, %s)", hostname, prefix, postfix)
	return hostname, nil
}

// NextForAsset derives the pair from the asset's owner country and model
// category and allocates the next hostname. The asset's model and category
// must be preloaded.
func (a *Allocator) NextForAsset(ctx context.Context, tx *gorm.DB, asset *models.Asset) (string, error) {
	prefix, err := PrefixForCountry(asset.OwnerCountry)
	if err != nil {
		return "", err
	}
	if asset.Model == nil || asset.Model.Category == nil {
		return "", ErrNoCategoryCode
	}
	return a.Next(ctx, tx, prefix, asset.Model.Category.Code)
}
