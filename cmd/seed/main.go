package main

import (
	"context"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/medibot/clinic-scheduler/internal/config"
	"github.com/medibot/clinic-scheduler/internal/db"
	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/schedule"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

const demoTenant = "demo-clinic"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer cleanup()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedSettings(ctx, store); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	if err := seedHolidays(ctx, store); err != nil {
		log.Fatalf("seed holidays: %v", err)
	}
	if err := seedAppointments(ctx, store, 40); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Printf("seed complete for tenant %q", demoTenant)
}

func seedSettings(ctx context.Context, store sheet.Store) error {
	rows := [][]any{
		{"クリニック名", "デモクリニック"},
		{"診療開始時間", "09:00"},
		{"診療終了時間", "18:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "14:00"},
		{"予約枠の単位（分）", "30"},
		{"予約可能日数", "30"},
		{"休診日（終日）", "日、祝"},
		{"休診日（午前）", ""},
		{"休診日（午後）", "土"},
		{"1枠あたりの最大予約数", "1"},
		{"診察券番号の利用", "あり"},
		{"医師指定の利用", "あり"},
		{"医師リスト", "佐藤、鈴木、高橋"},
	}
	return store.UpdateCells(ctx, demoTenant, "設定!A1", rows)
}

func seedHolidays(ctx context.Context, store sheet.Store) error {
	year := time.Now().Year() + 1
	rows := [][]any{
		{"休診日"},
		{jtime.Date{Year: year, Month: 1, Day: 1}.String()},
		{jtime.Date{Year: year, Month: 1, Day: 2}.String()},
		{jtime.Date{Year: year, Month: 1, Day: 3}.String()},
	}
	return store.UpdateCells(ctx, demoTenant, "休診日!A1", rows)
}

func seedAppointments(ctx context.Context, store sheet.Store, count int) error {
	log.Printf("seeding %d appointments", count)

	header := [][]any{{"日付", "時間", "氏名", "電話番号", "メールアドレス", "診察券番号", "医師", "症状", "ステータス", "予約経路"}}
	if err := store.UpdateCells(ctx, demoTenant, "予約!A1", header); err != nil {
		return err
	}

	doctors := []string{"佐藤", "鈴木", "高橋"}
	symptoms := []string{"頭痛", "発熱", "腹痛", "定期検診", "予防接種"}
	channels := []string{"Bot", "Web", "電話"}

	today := jtime.DateOf(time.Now())
	for i := 0; i < count; i++ {
		date := today.AddDays(gofakeit.Number(1, 14))

		// Morning 9:00-11:30 or afternoon 14:00-17:30, 30-minute grid.
		var minutes int
		if gofakeit.Bool() {
			minutes = 9*60 + 30*gofakeit.Number(0, 5)
		} else {
			minutes = 14*60 + 30*gofakeit.Number(0, 7)
		}

		status := string(schedule.StatusConfirmed)
		if gofakeit.Number(0, 9) == 0 {
			status = string(schedule.StatusCancelled)
		}

		row := []any{
			date.String(),
			jtime.FormatClock(minutes),
			gofakeit.Name(),
			gofakeit.Phone(),
			gofakeit.Email(),
			gofakeit.DigitN(6),
			doctors[gofakeit.Number(0, len(doctors)-1)],
			symptoms[gofakeit.Number(0, len(symptoms)-1)],
			status,
			channels[gofakeit.Number(0, len(channels)-1)],
		}
		if err := store.AppendRow(ctx, demoTenant, schedule.AppointmentRange, [][]any{row}); err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (sheet.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := sheet.NewPgStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		store := sheet.NewExcelStore(cfg.DataDir)
		if err := store.CreateTenant(demoTenant, []string{"設定", "予約", "休診日"}); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
