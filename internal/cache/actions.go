package cache

import (
	"fmt"
	"io"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/pkg/caching"
	"github.com/urfave/cli/v2"
)

func openCache(c *cli.Context) (*caching.Cache, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		return nil, cli.Exit("page cache is disabled (empty cache_dir)", 1)
	}
	return caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
}

// PurgeAction removes expired pages from the HTML cache.
func PurgeAction(c *cli.Context) error {
	cache, err := openCache(c)
	if err != nil {
		return err
	}
	return purge(c.App.Writer, cache)
}

func purge(w io.Writer, cache *caching.Cache) error {
	n, err := cache.Purge()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %d expired pages from %s (ttl %s)\n", n, cache.Dir(), cache.TTL())
	return nil
}

// DropAction forgets the cached copy of every URL given.
func DropAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("Usage: wtp cache drop <url>...", 1)
	}
	cache, err := openCache(c)
	if err != nil {
		return err
	}
	return drop(c.App.Writer, cache, c.Args().Slice())
}

func drop(w io.Writer, cache *caching.Cache, urls []string) error {
	for _, raw := range urls {
		u := common.SanitizeURL(raw)
		if err := cache.Delete(u); err != nil {
			return err
		}
		fmt.Fprintf(w, "Dropped %s\n", u)
	}
	return nil
}
