// Command stats prints the blog aggregations (total likes, favorite blog, most
// prolific author, most liked author) as JSON.
//
// Blogs are read from the configured Postgres database, or from a JSON array
// given with -file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
)

type config struct {
	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		logger.Error("stats failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "env file holding the POSTGRES_* settings")
	file := fs.String("file", "", "read blogs from a JSON array instead of the database")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		stats *blogservice.Stats
		err   error
	)
	if *file != "" {
		stats, err = statsFromFile(*file)
	} else {
		stats, err = statsFromDB(ctx, *envFile)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "\t")

	return enc.Encode(stats)
}

// fileBlog accepts blog exports whose ids are not UUIDs.
type fileBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

func statsFromFile(path string) (*blogservice.Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var input []fileBlog
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}

	blogs := make([]blogservice.Blog, 0, len(input))
	for _, b := range input {
		blogs = append(blogs, blogservice.Blog{Title: b.Title, Author: b.Author, URL: b.URL, Likes: b.Likes})
	}

	return blogservice.Summarize(blogs), nil
}

func statsFromDB(ctx context.Context, envFile string) (*blogservice.Stats, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "bloglist")
	v.AutomaticEnv()

	if _, err := os.Stat(envFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 2, 1, time.Minute)
	if err != nil {
		return nil, err
	}
	defer common.CloseDB(db)

	s := blogservice.NewBlogService(blogservice.NewBlogModel(db), nil, common.NewCache(time.Minute, time.Minute))

	return s.Stats(ctx)
}
