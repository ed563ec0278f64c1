package controllers

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB collections, initialized once at startup.
var (
	companyCollection *mongo.Collection
	lobbyCollection   *mongo.Collection
	tradeCollection   *mongo.Collection
)

// SetCompanyCollection initializes the companies collection.
func SetCompanyCollection(db *mongo.Database) {
	companyCollection = db.Collection("companies")

	indexModel := mongo.IndexModel{
		Keys:    bson.M{"ticker": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := companyCollection.Indexes().CreateOne(context.TODO(), indexModel); err != nil {
		log.Fatalf("Failed to create unique index on ticker field: %v", err)
	}
}

// SetLobbyCollection initializes the lobbies collection.
func SetLobbyCollection(db *mongo.Database) {
	lobbyCollection = db.Collection("lobbies")

	indexModel := mongo.IndexModel{
		Keys:    bson.M{"id": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := lobbyCollection.Indexes().CreateOne(context.TODO(), indexModel); err != nil {
		log.Fatalf("Failed to create unique index on lobby id field: %v", err)
	}
}

// SetTradeCollection initializes the trade archive collection.
func SetTradeCollection(db *mongo.Database) {
	tradeCollection = db.Collection("trades")
}
