package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "shopcheck"
	}
	db := client.Database(dbName)

	userRepo := repository.NewUserRepo(db)
	checklistRepo := repository.NewChecklistRepo(db)
	questionRepo := repository.NewQuestionRepo(db)

	// Users: one superadmin, one admin with a shop link, two workers
	if _, err := userRepo.Create(ctx, &model.User{
		ChatID:   100000001,
		FullName: "Root Admin",
		Role:     model.RoleSuperadmin,
	}); err != nil {
		log.Fatalf("Failed to seed superadmin: %v", err)
	}

	if _, err := userRepo.Create(ctx, &model.User{
		ChatID:   100000002,
		FullName: "Maria Petrova",
		Role:     model.RoleAdmin,
	}); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := userRepo.AttachShop(ctx, 100000002, "Central"); err != nil {
		log.Fatalf("Failed to link admin shop: %v", err)
	}

	workers := []*model.User{
		{ChatID: 100000003, FullName: "Ivan Sidorov", Role: model.RoleWorker, ShopID: "Central", Position: "cashier"},
		{ChatID: 100000004, FullName: "Olga Ivanova", Role: model.RoleWorker, ShopID: "Central", Position: "merchandiser"},
	}
	for _, w := range workers {
		if _, err := userRepo.Create(ctx, w); err != nil {
			log.Fatalf("Failed to seed worker %s: %v", w.FullName, err)
		}
	}

	// One checklist covering all three question types
	checklistID, err := checklistRepo.Create(ctx, &model.Checklist{
		Title:  "Morning opening routine",
		ShopID: "Central",
	})
	if err != nil {
		log.Fatalf("Failed to seed checklist: %v", err)
	}

	questions := []*model.Question{
		{ChecklistID: checklistID, Text: "Is the entrance area clean?", Type: model.QuestionTypeBinary, Order: 1},
		{ChecklistID: checklistID, Text: "Rate the shelf stocking from 1 to 10", Type: model.QuestionTypeScale, Order: 2},
		{ChecklistID: checklistID, Text: "Describe the state of the storefront", Type: model.QuestionTypeText, NeedsPhoto: true, Order: 3},
	}
	for _, q := range questions {
		if _, err := questionRepo.Create(ctx, q); err != nil {
			log.Fatalf("Failed to seed question %q: %v", q.Text, err)
		}
	}

	fmt.Printf("Seeded %d users and checklist %s with %d questions\n", 2+len(workers), checklistID, len(questions))
}
