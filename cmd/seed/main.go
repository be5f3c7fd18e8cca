package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"marketplace/internal/auth"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/logger"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// SeedUser is one entry of users.json.
type SeedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedProduct is one entry of products.json. Seller is the owner's email.
type SeedProduct struct {
	Title       string `json:"title"`
	ProductType string `json:"productType"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
	Price       string `json:"price"`
	Seller      string `json:"seller"`
}

func main() {
	importData := flag.Bool("import", false, "import fixtures")
	deleteData := flag.Bool("delete", false, "delete all reviews, products and users")
	dir := flag.String("dir", "fixtures", "fixtures directory")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv, os.Stdout)

	if *importData == *deleteData {
		log.Fatal("pass exactly one of -import or -delete", nil)
	}

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("database init", map[string]interface{}{"error": err})
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatal("database migrate", map[string]interface{}{"error": err})
	}

	users := repository.NewUserRepository(gormDB)
	products := repository.NewProductRepository(gormDB)
	reviews := repository.NewReviewRepository(gormDB)
	consistency := service.NewConsistencyManager(users, products, reviews, log)
	ctx := context.Background()

	if *deleteData {
		if err := deleteAll(ctx, users, products, reviews); err != nil {
			log.Fatal("delete data", map[string]interface{}{"error": err})
		}
		log.Info("data destroyed", nil)
		return
	}

	var seedUsers []SeedUser
	if err := readFixture(filepath.Join(*dir, "users.json"), &seedUsers); err != nil {
		log.Fatal("read users fixture", map[string]interface{}{"error": err})
	}
	var seedProducts []SeedProduct
	if err := readFixture(filepath.Join(*dir, "products.json"), &seedProducts); err != nil {
		log.Fatal("read products fixture", map[string]interface{}{"error": err})
	}

	byEmail, err := seedUsersInto(ctx, users, seedUsers)
	if err != nil {
		log.Fatal("seed users", map[string]interface{}{"error": err})
	}
	created, err := seedProductsInto(ctx, products, consistency, byEmail, seedProducts)
	if err != nil {
		log.Fatal("seed products", map[string]interface{}{"error": err})
	}

	log.Info("data imported", map[string]interface{}{
		"users":    len(byEmail),
		"products": created,
	})
}

func readFixture(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// seedUsersInto creates the users and returns them keyed by email.
func seedUsersInto(ctx context.Context, repo repository.UserRepository, items []SeedUser) (map[string]*model.User, error) {
	byEmail := make(map[string]*model.User, len(items))
	for _, item := range items {
		role, err := model.ParseRole(item.Role)
		if err != nil {
			return byEmail, fmt.Errorf("user %s: %w", item.Email, err)
		}
		hash, err := auth.HashPassword(item.Password)
		if err != nil {
			return byEmail, fmt.Errorf("user %s: %w", item.Email, err)
		}

		user := &model.User{
			Name:         item.Name,
			Slug:         slug.Make(item.Name),
			Email:        strings.ToLower(strings.TrimSpace(item.Email)),
			PasswordHash: hash,
			Role:         role,
			Products:     model.IDList{},
			Reviews:      model.IDList{},
		}
		if item.Phone != "" {
			phone := item.Phone
			user.Phone = &phone
		}
		if err := repo.Create(ctx, user); err != nil {
			return byEmail, fmt.Errorf("create user %s: %w", item.Email, err)
		}
		byEmail[user.Email] = user
	}
	return byEmail, nil
}

func seedProductsInto(ctx context.Context, repo repository.ProductRepository, consistency *service.ConsistencyManager, sellers map[string]*model.User, items []SeedProduct) (int, error) {
	created := 0
	for _, item := range items {
		seller, ok := sellers[strings.ToLower(item.Seller)]
		if !ok {
			return created, fmt.Errorf("product %q: unknown seller %s", item.Title, item.Seller)
		}
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return created, fmt.Errorf("product %q: invalid price %q", item.Title, item.Price)
		}

		photo := item.Photo
		if photo == "" {
			photo = model.DefaultPhoto
		}
		product := &model.Product{
			Title:       item.Title,
			Slug:        slug.Make(item.Title),
			ProductType: item.ProductType,
			Description: item.Description,
			Photo:       photo,
			Price:       price,
			SellerID:    seller.ID,
			Reviews:     model.IDList{},
		}
		if err := repo.Create(ctx, product); err != nil {
			return created, fmt.Errorf("create product %q: %w", item.Title, err)
		}
		if err := consistency.ProductCreated(ctx, product); err != nil {
			return created, fmt.Errorf("link product %q: %w", item.Title, err)
		}
		created++
	}
	return created, nil
}

func deleteAll(ctx context.Context, users repository.UserRepository, products repository.ProductRepository, reviews repository.ReviewRepository) error {
	return errors.Join(
		reviews.DeleteAll(ctx),
		products.DeleteAll(ctx),
		users.DeleteAll(ctx),
	)
}
