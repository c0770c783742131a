// Package mongo is the document-store Store backend. Period keys carry
// unique indexes so each summary tier has at most one row per period, and
// transactions are indexed for date and recency queries.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jeyasuryak/chai-fi/internal/core"
	"github.com/jeyasuryak/chai-fi/internal/store"
)

const (
	collUsers            = "users"
	collMenuItems        = "menu_items"
	collTransactions     = "transactions"
	collDailySummaries   = "daily_summaries"
	collWeeklySummaries  = "weekly_summaries"
	collMonthlySummaries = "monthly_summaries"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB, builds the indexes and seeds default data into
// an empty database. The caller decides what to do when this fails; the
// backend factory falls back to the in-memory store.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	if err := s.ensureDefaults(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	slog.InfoContext(ctx, "Connected to MongoDB", "database", dbName)
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	if _, err := s.db.Collection(collUsers).Indexes().CreateOne(ctx, unique("username")); err != nil {
		return err
	}
	if _, err := s.db.Collection(collTransactions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return err
	}
	if _, err := s.db.Collection(collDailySummaries).Indexes().CreateOne(ctx, unique("date")); err != nil {
		return err
	}
	if _, err := s.db.Collection(collWeeklySummaries).Indexes().CreateOne(ctx, unique("weekStart")); err != nil {
		return err
	}
	if _, err := s.db.Collection(collMonthlySummaries).Indexes().CreateOne(ctx, unique("month")); err != nil {
		return err
	}
	return nil
}

func (s *Store) ensureDefaults(ctx context.Context) error {
	for _, u := range store.DefaultUsers() {
		count, err := s.db.Collection(collUsers).CountDocuments(ctx, bson.M{"username": u.Username})
		if err != nil {
			return err
		}
		if count == 0 {
			if err := s.CreateUser(ctx, u); err != nil {
				return err
			}
		}
	}

	menuCount, err := s.db.Collection(collMenuItems).CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if menuCount == 0 {
		for _, item := range store.DefaultMenuItems() {
			if err := s.CreateMenuItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// Users

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	var u core.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := s.db.Collection(collUsers).InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Menu items

func (s *Store) GetMenuItems(ctx context.Context) ([]core.MenuItem, error) {
	cur, err := s.db.Collection(collMenuItems).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}
	var items []core.MenuItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*core.MenuItem, error) {
	var item core.MenuItem
	err := s.db.Collection(collMenuItems).FindOne(ctx, bson.M{"id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &item, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, item core.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if _, err := s.db.Collection(collMenuItems).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, upd core.MenuItemUpdate) (*core.MenuItem, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}

	var item core.MenuItem
	err := s.db.Collection(collMenuItems).FindOneAndUpdate(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return &item, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := s.db.Collection(collMenuItems).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Transactions

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if _, err := s.db.Collection(collTransactions).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	return s.findTransactions(ctx, bson.M{}, limit)
}

func (s *Store) GetTransactionsByDate(ctx context.Context, date string) ([]core.Transaction, error) {
	return s.findTransactions(ctx, bson.M{"date": date}, 0)
}

func (s *Store) GetTransactionsByDateRange(ctx context.Context, start, end string) ([]core.Transaction, error) {
	return s.findTransactions(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}}, 0)
}

func (s *Store) findTransactions(ctx context.Context, filter bson.M, limit int) ([]core.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collTransactions).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	var txs []core.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) DeleteTransactionsByDate(ctx context.Context, date string) error {
	_, err := s.db.Collection(collTransactions).DeleteMany(ctx, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("delete transactions by date: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransactionsByDateRange(ctx context.Context, start, end string) error {
	_, err := s.db.Collection(collTransactions).DeleteMany(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
	if err != nil {
		return fmt.Errorf("delete transactions by range: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransactionsByMonth(ctx context.Context, month string) error {
	_, err := s.db.Collection(collTransactions).DeleteMany(ctx, bson.M{"date": monthPrefix(month)})
	if err != nil {
		return fmt.Errorf("delete transactions by month: %w", err)
	}
	return nil
}

// Daily summaries

func (s *Store) GetDailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	var sum core.DailySummary
	err := s.db.Collection(collDailySummaries).FindOne(ctx, bson.M{"date": date}).Decode(&sum)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find daily summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) GetDailySummaries(ctx context.Context, limit int) ([]core.DailySummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collDailySummaries).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find daily summaries: %w", err)
	}
	var sums []core.DailySummary
	if err := cur.All(ctx, &sums); err != nil {
		return nil, fmt.Errorf("decode daily summaries: %w", err)
	}
	return sums, nil
}

func (s *Store) PutDailySummary(ctx context.Context, sum core.DailySummary) error {
	_, err := s.db.Collection(collDailySummaries).UpdateOne(
		ctx,
		bson.M{"date": sum.Date},
		bson.M{
			"$set": bson.M{
				"totalAmount": sum.TotalAmount,
				"gpayAmount":  sum.GpayAmount,
				"cashAmount":  sum.CashAmount,
				"orderCount":  sum.OrderCount,
			},
			"$setOnInsert": bson.M{
				"id":        uuid.NewString(),
				"date":      sum.Date,
				"createdAt": time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummary(ctx context.Context, date string) error {
	_, err := s.db.Collection(collDailySummaries).DeleteOne(ctx, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("delete daily summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummariesInRange(ctx context.Context, start, end string) error {
	_, err := s.db.Collection(collDailySummaries).DeleteMany(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
	if err != nil {
		return fmt.Errorf("delete daily summaries in range: %w", err)
	}
	return nil
}

func (s *Store) DeleteDailySummariesByMonth(ctx context.Context, month string) error {
	_, err := s.db.Collection(collDailySummaries).DeleteMany(ctx, bson.M{"date": monthPrefix(month)})
	if err != nil {
		return fmt.Errorf("delete daily summaries by month: %w", err)
	}
	return nil
}

// Weekly summaries

func (s *Store) GetWeeklySummary(ctx context.Context, weekStart string) (*core.WeeklySummary, error) {
	var sum core.WeeklySummary
	err := s.db.Collection(collWeeklySummaries).FindOne(ctx, bson.M{"weekStart": weekStart}).Decode(&sum)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find weekly summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) GetWeeklySummaries(ctx context.Context, limit int) ([]core.WeeklySummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "weekStart", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collWeeklySummaries).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find weekly summaries: %w", err)
	}
	var sums []core.WeeklySummary
	if err := cur.All(ctx, &sums); err != nil {
		return nil, fmt.Errorf("decode weekly summaries: %w", err)
	}
	return sums, nil
}

func (s *Store) PutWeeklySummary(ctx context.Context, sum core.WeeklySummary) error {
	_, err := s.db.Collection(collWeeklySummaries).UpdateOne(
		ctx,
		bson.M{"weekStart": sum.WeekStart},
		bson.M{
			"$set": bson.M{
				"weekEnd":     sum.WeekEnd,
				"totalAmount": sum.TotalAmount,
				"gpayAmount":  sum.GpayAmount,
				"cashAmount":  sum.CashAmount,
				"orderCount":  sum.OrderCount,
			},
			"$setOnInsert": bson.M{
				"id":        uuid.NewString(),
				"weekStart": sum.WeekStart,
				"createdAt": time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert weekly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteWeeklySummary(ctx context.Context, weekStart string) error {
	_, err := s.db.Collection(collWeeklySummaries).DeleteOne(ctx, bson.M{"weekStart": weekStart})
	if err != nil {
		return fmt.Errorf("delete weekly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteWeeklySummariesByMonth(ctx context.Context, month string) error {
	_, err := s.db.Collection(collWeeklySummaries).DeleteMany(ctx, bson.M{"weekStart": monthPrefix(month)})
	if err != nil {
		return fmt.Errorf("delete weekly summaries by month: %w", err)
	}
	return nil
}

// Monthly summaries

func (s *Store) GetMonthlySummary(ctx context.Context, month string) (*core.MonthlySummary, error) {
	var sum core.MonthlySummary
	err := s.db.Collection(collMonthlySummaries).FindOne(ctx, bson.M{"month": month}).Decode(&sum)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find monthly summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) GetMonthlySummaries(ctx context.Context, limit int) ([]core.MonthlySummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(collMonthlySummaries).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find monthly summaries: %w", err)
	}
	var sums []core.MonthlySummary
	if err := cur.All(ctx, &sums); err != nil {
		return nil, fmt.Errorf("decode monthly summaries: %w", err)
	}
	return sums, nil
}

func (s *Store) PutMonthlySummary(ctx context.Context, sum core.MonthlySummary) error {
	_, err := s.db.Collection(collMonthlySummaries).UpdateOne(
		ctx,
		bson.M{"month": sum.Month},
		bson.M{
			"$set": bson.M{
				"totalAmount": sum.TotalAmount,
				"gpayAmount":  sum.GpayAmount,
				"cashAmount":  sum.CashAmount,
				"orderCount":  sum.OrderCount,
			},
			"$setOnInsert": bson.M{
				"id":        uuid.NewString(),
				"month":     sum.Month,
				"createdAt": time.Now(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert monthly summary: %w", err)
	}
	return nil
}

func (s *Store) DeleteMonthlySummary(ctx context.Context, month string) error {
	_, err := s.db.Collection(collMonthlySummaries).DeleteOne(ctx, bson.M{"month": month})
	if err != nil {
		return fmt.Errorf("delete monthly summary: %w", err)
	}
	return nil
}

func monthPrefix(month string) bson.M {
	return bson.M{"$regex": primitive.Regex{Pattern: "^" + month}}
}
