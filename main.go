// Demo program showing the filter engine end to end: evaluating filter trees
// against attendee records, the optimized cache/index path, per-view
// statistics, legacy filter migration, and saved-view persistence through the
// SQLite store.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/iianarmas/ffsc-anniversary-management-sub000/core/filter"
	"github.com/iianarmas/ffsc-anniversary-management-sub000/core/view"
	"github.com/iianarmas/ffsc-anniversary-management-sub000/sqlite"
)

const dbFileName = "views.db"

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	records := []filter.Record{
		{"id": 1, "firstName": "Ana", "lastName": "Cruz", "paid": true, "hasPrint": false, "shirtSize": "M", "location": "Hall A", "email": "ana@example.com"},
		{"id": 2, "firstName": "Ben", "lastName": "Reyes", "paid": false, "hasPrint": true, "shirtSize": "", "location": "Hall B"},
		{"id": 3, "firstName": "Cara", "lastName": "Lim", "paid": true, "hasPrint": true, "shirtSize": "#8", "location": "Hall A", "phone": "555-0103"},
		{"id": 4, "firstName": "Dan", "lastName": "Ong", "paid": false, "hasPrint": false, "shirtSize": "#16", "location": "Hall C"},
	}
	annotations := filter.AnnotationMap{
		"2": {HasNotes: true, NotesCount: 1, HasTasks: true, IncompleteTasksCount: 2},
		"4": {HasTasks: true},
	}

	engine := filter.NewEngine(logger)

	// 1. Plain evaluation: unpaid attendees with open tasks.
	group := &filter.FilterGroup{
		ID:       "demo-unpaid-tasks",
		Operator: filter.LogicalAnd,
		Conditions: []filter.FilterCondition{
			{ID: "c1", Field: "paymentStatus", Operator: filter.OperatorEquals, Value: filter.ScalarValue("unpaid")},
			{ID: "c2", Field: "hasTasks", Operator: filter.OperatorIsTrue},
		},
	}
	matched := engine.ApplyFilterGroup(records, group, annotations)
	fmt.Printf("unpaid with tasks: %d record(s)\n", len(matched))
	for _, rec := range matched {
		fmt.Printf("  - %v (%v)\n", filter.ResolveField(rec, "name", annotations), rec["id"])
	}

	// 2. Optimized path: the second identical call is served from the cache.
	_ = engine.ApplyFilterGroupOptimized(records, group, annotations, nil)
	_ = engine.ApplyFilterGroupOptimized(records, group, annotations, nil)
	hits, misses := engine.CacheStats()
	fmt.Printf("cache: %d hit(s), %d miss(es)\n", hits, misses)

	// 3. Per-view counters.
	schema := filter.ViewSchema{
		ViewType: "attendees",
		Fields: []filter.FieldSpec{
			{Field: "paymentStatus", Kind: filter.FieldKindSelect, Options: []string{"paid", "unpaid"}},
			{Field: "categories", Kind: filter.FieldKindSelect, Options: []string{"Kids", "Teen", "Adult", "No Order"}},
			{Field: "amount", Kind: filter.FieldKindNumeric},
		},
	}
	stats := filter.CalculateStats(records, schema, annotations)
	statsJSON, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Printf("stats: %s\n", statsJSON)

	// 4. Legacy flat filters migrate into a tree.
	legacy := map[string]any{"paymentStatus": "Paid", "categories": []any{"Kids", "Teen"}}
	if filter.IsLegacyFormat(legacy) {
		migrated := filter.MigrateLegacyFilter(legacy)
		result := filter.ValidateFilterGroup(&migrated)
		fmt.Printf("migrated legacy filter: %d condition(s), valid=%v\n", len(migrated.Conditions), result.Valid)
	}

	// 5. Saved views round-trip through the SQLite store.
	os.Remove(dbFileName)
	db, err := sql.Open("sqlite3", dbFileName)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	defer os.Remove(dbFileName)

	store, err := sqlite.NewViewStore(db, logger)
	if err != nil {
		log.Fatalf("failed to initialize view store: %v", err)
	}

	saved := &view.SavedView{
		OwnerID:    "demo-user",
		Name:       "Unpaid with tasks",
		ViewType:   view.ViewTypeAttendees,
		Visibility: view.VisibilityPrivate,
		Filters:    *group,
	}
	ctx := context.Background()
	if err := store.Create(ctx, saved); err != nil {
		log.Fatalf("failed to save view: %v", err)
	}

	loaded, err := store.Get(ctx, saved.ID)
	if err != nil {
		log.Fatalf("failed to load view: %v", err)
	}
	reMatched := engine.ApplyFilterGroup(records, &loaded.Filters, annotations)
	fmt.Printf("saved view %q reloaded, matches %d record(s)\n", loaded.Name, len(reMatched))
}
