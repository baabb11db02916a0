package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/config"
	"github.com/pageza/weekprep/backend/internal/database"
	"github.com/pageza/weekprep/backend/internal/logging"
	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/session"
)

func ing(name string, amount float64, unit string, c model.IngredientCategory) model.Ingredient {
	return model.Ingredient{Name: name, Amount: amount, Unit: unit, Category: c}
}

// sampleRecipes covers every meal type and both storage types so a fresh
// account can generate a full week straight away.
var sampleRecipes = []model.Recipe{
	{
		Name:          "Overnight Oats",
		PrepTime:      10,
		BatchServings: 5,
		StorageType:   model.StorageFridge,
		MealType:      model.MealBreakfast,
		Ingredients: []model.Ingredient{
			ing("Rolled oats", 250, "g", model.CategoryOthers),
			ing("Milk", 500, "ml", model.CategoryProtein),
			ing("Banana", 2, "pc", model.CategoryVegetablesFruits),
		},
		Steps: []string{"Mix oats and milk in jars", "Top with sliced banana", "Refrigerate overnight"},
	},
	{
		Name:          "Egg Muffins",
		PrepTime:      35,
		BatchServings: 12,
		StorageType:   model.StorageFreezer,
		MealType:      model.MealBreakfast,
		Ingredients: []model.Ingredient{
			ing("Eggs", 10, "pc", model.CategoryProtein),
			ing("Spinach", 100, "g", model.CategoryVegetablesFruits),
			ing("Salt", 1, "tsp", model.CategorySeasonings),
		},
		Steps: []string{"Whisk eggs with salt", "Fold in spinach", "Bake in a muffin tin for 20 minutes"},
	},
	{
		Name:          "Chicken Rice Bowls",
		PrepTime:      45,
		BatchServings: 4,
		StorageType:   model.StorageFridge,
		MealType:      model.MealLunch,
		Ingredients: []model.Ingredient{
			ing("Chicken breast", 600, "g", model.CategoryProtein),
			ing("Rice", 300, "g", model.CategoryOthers),
			ing("Broccoli", 1, "head", model.CategoryVegetablesFruits),
			ing("Soy sauce", 3, "tbsp", model.CategorySeasonings),
		},
		Steps: []string{"Cook the rice", "Pan-fry the chicken", "Steam the broccoli", "Portion into boxes"},
	},
	{
		Name:          "Lentil Soup",
		PrepTime:      50,
		BatchServings: 6,
		StorageType:   model.StorageFreezer,
		MealType:      model.MealLunch,
		Ingredients: []model.Ingredient{
			ing("Red lentils", 400, "g", model.CategoryProtein),
			ing("Carrot", 3, "pc", model.CategoryVegetablesFruits),
			ing("Onion", 1, "pc", model.CategoryVegetablesFruits),
			ing("Cumin", 2, "tsp", model.CategorySeasonings),
		},
		Steps: []string{"Sweat onion and carrot", "Add lentils and water", "Simmer 30 minutes and blend"},
	},
	{
		Name:          "Beef Chili",
		PrepTime:      90,
		BatchServings: 8,
		StorageType:   model.StorageFreezer,
		MealType:      model.MealDinner,
		Ingredients: []model.Ingredient{
			ing("Ground beef", 800, "g", model.CategoryProtein),
			ing("Kidney beans", 2, "can", model.CategoryProtein),
			ing("Onion", 2, "pc", model.CategoryVegetablesFruits),
			ing("Chili powder", 2, "tbsp", model.CategorySeasonings),
		},
		Steps: []string{"Brown the beef", "Add onion and spices", "Add beans and simmer for an hour"},
	},
	{
		Name:          "Roast Vegetable Pasta",
		PrepTime:      40,
		BatchServings: 4,
		StorageType:   model.StorageFridge,
		MealType:      model.MealDinner,
		Ingredients: []model.Ingredient{
			ing("Pasta", 400, "g", model.CategoryOthers),
			ing("Zucchini", 2, "pc", model.CategoryVegetablesFruits),
			ing("Bell pepper", 2, "pc", model.CategoryVegetablesFruits),
			ing("Olive oil", 3, "tbsp", model.CategorySeasonings),
		},
		Steps: []string{"Roast the vegetables", "Boil the pasta", "Toss together with oil"},
	},
	{
		Name:          "Energy Balls",
		PrepTime:      15,
		BatchServings: 16,
		StorageType:   model.StorageFridge,
		MealType:      model.MealSnacks,
		Ingredients: []model.Ingredient{
			ing("Dates", 200, "g", model.CategoryVegetablesFruits),
			ing("Almonds", 100, "g", model.CategoryProtein),
		},
		Steps: []string{"Blend dates and almonds", "Roll into balls"},
	},
}

func main() {
	name := flag.String("name", "Demo Cook", "Name of the demo account")
	email := flag.String("email", "demo@weekprep.local", "Email of the demo account")
	password := flag.String("password", "weekprep-demo", "Password of the demo account")
	generate := flag.Bool("generate", true, "Generate a weekly menu after seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.LogLevel, false)
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	recipes := repository.NewRecipeRepository(db)
	schedules := repository.NewScheduleRepository(db)
	shelf := repository.NewShelfRepository(db)
	sessions := session.NewManager(recipes, schedules, shelf, session.NewMemoryCache(), logger)

	auth := service.NewAuthService(repository.NewUserRepository(db), sessions, cfg.JWTSecret, logger)
	recipeSvc := service.NewRecipeService(recipes, sessions, nil, logger)
	scheduleSvc := service.NewScheduleService(schedules, sessions, logger)

	ctx := context.Background()
	_, user, err := auth.Register(ctx, *name, *email, *password)
	if errors.Is(err, service.ErrUserExists) {
		_, user, err = auth.Login(ctx, *email, *password)
	}
	if err != nil {
		logger.Fatal("Failed to prepare demo account", zap.String("email", *email), zap.Error(err))
	}

	existing, err := recipeSvc.List(ctx, user.ID, "", "")
	if err != nil {
		logger.Fatal("Failed to list recipes", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		have[r.Name] = true
	}

	created := 0
	for _, r := range sampleRecipes {
		if have[r.Name] {
			continue
		}
		if _, err := recipeSvc.Create(ctx, user.ID, r); err != nil {
			logger.Error("Failed to save recipe", zap.String("recipe", r.Name), zap.Error(err))
			continue
		}
		created++
		logger.Info("Created recipe", zap.String("recipe", r.Name))
	}
	logger.Info("Seeded recipes", zap.String("email", user.Email), zap.Int("created", created))

	if *generate {
		res, err := scheduleSvc.Generate(ctx, user.ID)
		if err != nil {
			logger.Fatal("Failed to generate menu", zap.Error(err))
		}
		if !res.Persisted {
			logger.Fatal("Generated menu was not saved", zap.String("error", res.PersistError))
		}
		logger.Info("Generated weekly menu")
	}
}
