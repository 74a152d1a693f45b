// Command stress drives concurrent sales against a live MySQL/Redis pair and
// checks that exactly initialStock requests commit and the final stock is
// zero, proving the no-oversell property end to end.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/shopdeskhq/shopdesk/internal/adapter/storage"
	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/core/service"
)

const (
	mysqlDSN      = "root:root@tcp(localhost:3306)/shopdesk?parseTime=true"
	redisAddr     = "localhost:6379"
	productName   = "stress-widget"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Reset the test product
	if _, err := db.ExecContext(ctx, `DELETE FROM sales WHERE product_name = ?`, productName); err != nil {
		log.Fatalf("failed to clear sales: %v", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO inventory (product_name, sku, quantity_in_stock, price, date_added)
		VALUES (?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity_in_stock = ?`,
		productName, "STRESS-1", initialStock, "9.99", initialStock)
	if err != nil {
		log.Fatalf("failed to seed inventory: %v", err)
	}

	store := storage.NewMySQLAdapter(db)
	idempotency := storage.NewRedisAdapter(rdb, time.Hour)
	saleService := service.NewSaleService(store, idempotency, nil, 5*time.Second, 3)

	var successCount, stockFailCount, otherFailCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := saleService.RecordSale(ctx, service.RecordSaleInput{
				RequestID:   uuid.NewString(),
				ProductName: productName,
				Quantity:    1,
				TotalPrice:  decimal.RequireFromString("9.99"),
				ActorID:     1,
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockFailCount.Add(1)
			default:
				otherFailCount.Add(1)
				log.Printf("unexpected failure: %v", err)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	stockFail := stockFailCount.Load()
	otherFail := otherFailCount.Load()

	fmt.Println("========== STRESS RESULTS ==========")
	fmt.Printf("Initial Stock:   %d\n", initialStock)
	fmt.Printf("Total Requests:  %d\n", totalRequests)
	fmt.Printf("Committed:       %d\n", success)
	fmt.Printf("Out of stock:    %d\n", stockFail)
	fmt.Printf("Other failures:  %d\n", otherFail)
	fmt.Printf("Duration:        %v\n", elapsed)
	fmt.Println("====================================")

	if success == initialStock && stockFail == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d sales committed\n", initialStock)
	} else {
		fmt.Printf("FAIL: expected %d committed / %d out of stock\n",
			initialStock, totalRequests-initialStock)
	}

	var finalStock int
	if err := db.QueryRowContext(ctx,
		`SELECT quantity_in_stock FROM inventory WHERE product_name = ?`, productName,
	).Scan(&finalStock); err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", finalStock)
	if finalStock == 0 {
		fmt.Println("PASS: stock depleted to 0, never negative")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", finalStock)
	}
}
