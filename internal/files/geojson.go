package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/pkg/contracts/domain"
)

const featureCollectionType = "FeatureCollection"

// LoadBoundaries reads a GeoJSON FeatureCollection from path. Every feature
// must carry a non-empty string under key in its properties.
func LoadBoundaries(path, key string) (domain.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FeatureCollection{}, apierrors.NewStorageError("failed to read boundary file", err).
			WithContext("path", path)
	}

	fc, err := DecodeBoundaries(bytes.NewReader(data), key)
	if err != nil {
		if appErr, ok := err.(*apierrors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return domain.FeatureCollection{}, err
	}
	return fc, nil
}

// DecodeBoundaries decodes and checks a FeatureCollection.
func DecodeBoundaries(r io.Reader, key string) (domain.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.FeatureCollection{}, apierrors.NewStorageError("failed to read boundaries", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var fc domain.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return domain.FeatureCollection{}, apierrors.NewParsingError("invalid GeoJSON", err)
	}
	if fc.Type != featureCollectionType {
		return domain.FeatureCollection{}, apierrors.NewParsingError(
			fmt.Sprintf("expected %s, got %q", featureCollectionType, fc.Type), nil)
	}

	seen := make(map[string]int, len(fc.Features))
	for i, f := range fc.Features {
		name := f.Name(key)
		if name == "" {
			return domain.FeatureCollection{}, apierrors.NewParsingError(
				fmt.Sprintf("feature %d has no %q property", i, key), nil)
		}
		if prev, dup := seen[name]; dup {
			return domain.FeatureCollection{}, apierrors.NewParsingError(
				fmt.Sprintf("features %d and %d share %s %q", prev, i, key, name), nil)
		}
		seen[name] = i
	}

	return fc, nil
}
