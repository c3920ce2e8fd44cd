package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/diewo77/go-commandes/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	vals []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.vals = append(p.vals, string(value))
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func setupAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAuditRecordPersistsAndPublishes(t *testing.T) {
	db := setupAuditDB(t)
	pub := &recordingPublisher{}
	svc := NewAuditService(db, pub, zerolog.Nop())
	ctx := context.Background()

	svc.Record(ctx, models.AuditLog{EntityType: "commande", EntityID: 7, Action: "statut", Field: "statut", OldValue: "VALIDEE", NewValue: "EXPEDIEE"})
	svc.Record(ctx, models.AuditLog{EntityType: "client", EntityID: 2, Action: "create"})

	rows, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].EntityType != "client" {
		t.Fatalf("expected newest first, got %+v", rows[0])
	}
	if len(pub.keys) != 2 || pub.keys[0] != "commande:7" {
		t.Fatalf("published keys = %v", pub.keys)
	}
	if !strings.Contains(pub.vals[0], `"new_value":"EXPEDIEE"`) {
		t.Fatalf("payload = %s", pub.vals[0])
	}

	hist, err := svc.ForEntity(ctx, "commande", 7)
	if err != nil || len(hist) != 1 || hist[0].OldValue != "VALIDEE" {
		t.Fatalf("history = %+v, %v", hist, err)
	}
}

func TestAuditPublishFailureIsSwallowed(t *testing.T) {
	db := setupAuditDB(t)
	svc := NewAuditService(db, &recordingPublisher{err: errors.New("broker down")}, zerolog.Nop())
	svc.Record(context.Background(), models.AuditLog{EntityType: "produit", EntityID: 1, Action: "delete"})
	var n int64
	db.Model(&models.AuditLog{}).Count(&n)
	if n != 1 {
		t.Fatalf("row should be stored despite publish failure, got %d", n)
	}
}

func TestAuditWithoutDatabase(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAuditService(nil, pub, zerolog.Nop())
	svc.Record(context.Background(), models.AuditLog{EntityType: "livraison", EntityID: 3, Action: "annuler"})
	if len(pub.keys) != 1 {
		t.Fatalf("expected publish even without db")
	}
	rows, err := svc.Recent(context.Background(), 5)
	if err != nil || rows != nil {
		t.Fatalf("expected nil rows, got %v %v", rows, err)
	}
	var nilSvc *AuditService
	nilSvc.Record(context.Background(), models.AuditLog{})
}
