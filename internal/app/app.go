package app

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"menu-bot/internal/config"
	"menu-bot/internal/database"
	"menu-bot/internal/family"
	"menu-bot/internal/grocery"
	"menu-bot/internal/llm"
	"menu-bot/internal/planner"
	"menu-bot/internal/rating"
	"menu-bot/internal/recipe"
	"menu-bot/internal/scraper"
	"menu-bot/internal/seasonal"
	"menu-bot/internal/tasks"
)

// App wires the repositories and services together. Every dependency
// is constructed here and handed down explicitly.
type App struct {
	cfg *config.Config
	log *zap.Logger
	db  *database.DB

	Recipes *recipe.Repository
	Ratings *rating.Repository
	Plans   *planner.Repository
	Lists   *grocery.Repository
	Family  *family.Repository

	Seasons    *seasonal.Provider
	GroceryCfg *grocery.Config
	Optimizer  *grocery.Optimizer
	Scheduler  *planner.Scheduler
	Extractor  *recipe.Extractor
	Scraper    *scraper.Scraper
	LLM        *llm.GeminiClient

	// TasksAuth and TasksSync are nil when Google credentials are not
	// configured.
	TasksAuth *tasks.OAuthManager
	TasksSync *tasks.Syncer
}

// New builds the full application from configuration.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	seasons, err := seasonal.NewProvider(cfg.SeasonalConfig)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load seasonal config: %w", err)
	}

	groceryCfg, err := grocery.LoadConfig(cfg.StoresConfig)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load stores config: %w", err)
	}

	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	a := &App{
		cfg:        cfg,
		log:        log,
		db:         db,
		Recipes:    recipe.NewRepository(db.SQL),
		Ratings:    rating.NewRepository(db.SQL),
		Plans:      planner.NewRepository(db.SQL),
		Lists:      grocery.NewRepository(db.SQL),
		Family:     family.NewRepository(db.SQL),
		Seasons:    seasons,
		GroceryCfg: groceryCfg,
		Optimizer:  grocery.NewOptimizer(groceryCfg, log),
		Scraper:    scraper.NewScraper(),
		Extractor:  recipe.NewExtractor(gemini),
		LLM:        gemini,
	}

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	source := &plannerStore{
		recipes: a.Recipes,
		ratings: a.Ratings,
		plans:   a.Plans,
		family:  a.Family,
	}
	a.Scheduler = planner.NewScheduler(source, seasons, rng, log)

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		a.TasksAuth = tasks.NewOAuthManager(
			cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL, cfg.TasksStateSecret)
		a.TasksSync = tasks.NewSyncer(a.TasksAuth, log)
	}

	return a, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.LLM != nil {
		a.LLM.Close()
	}
	return a.db.Close()
}

// plannerStore adapts the repositories to what the scheduler needs.
type plannerStore struct {
	recipes *recipe.Repository
	ratings *rating.Repository
	plans   *planner.Repository
	family  *family.Repository
}

func (s *plannerStore) GetApprovedRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	return s.recipes.GetApproved(ctx)
}

func (s *plannerStore) GetRecipeRatingScores(ctx context.Context) (map[string]rating.Score, error) {
	recipes, err := s.recipes.GetApproved(ctx)
	if err != nil {
		return nil, err
	}
	return s.ratings.ScoresFor(ctx, recipes)
}

func (s *plannerStore) GetRecentlyUsedRecipeIDs(ctx context.Context, days int) (map[string]bool, error) {
	return s.plans.GetRecentlyUsedRecipeIDs(ctx, days)
}

func (s *plannerStore) GetPreferences(ctx context.Context) (family.Preferences, error) {
	return s.family.GetPreferences(ctx)
}
