// Package version checks for newer releases of the CLI.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/gurbani-cli/gurbani/network"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/gurbani-cli/gurbani/where"
	"github.com/metafates/gache"
)

// ReleasesURL answers with the latest GitHub release.
var ReleasesURL = "https://api.github.com/repos/gurbani-cli/gurbani/releases/latest"

var cacher = sync.OnceValue(func() *gache.Cache[string] {
	return gache.New[string](&gache.Options{
		Path:       filepath.Join(where.Cache(), "version.json"),
		Lifetime:   time.Hour * 24 * 2,
		FileSystem: &filesystem.GacheFs{},
	})
})

// Latest returns the newest released version, cached for two days.
func Latest() (string, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return "", err
	}

	if !expired && cached != "" {
		return cached, nil
	}

	resp, err := network.Client.Get(ReleasesURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	_ = cacher().Set(latest)
	return latest, nil
}
