package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/internal/cache"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/network"
	"github.com/keypoint-cli/keypoint/where"
)

const releasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var releases *cache.Keyed[string, string]

func cached() *cache.Keyed[string, string] {
	if releases == nil {
		releases = cache.New[string, string](filepath.Join(where.Cache(), "version.json"), 48*time.Hour)
	}
	return releases
}

// Latest returns the newest released version. Answers are kept for two days.
func Latest(ctx context.Context) (string, error) {
	if v, ok := cached().Get("latest").Get(); ok && v != "" {
		return v, nil
	}

	body, err := network.Fetch(ctx, releasesURL)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", errors.New("release without a tag")
	}

	v := strings.TrimPrefix(release.TagName, "v")
	if err := cached().Set("latest", v); err != nil {
		log.Warnf("cache latest version: %v", err)
	}
	return v, nil
}
