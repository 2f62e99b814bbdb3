package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lcsmrct/Henna-alicia/internal/booking"
	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
	"github.com/Lcsmrct/Henna-alicia/internal/db"
)

var slotTimes = []string{"10:00", "11:30", "14:00", "15:30", "17:00"}

var sampleComments = []string{
	"Très beau travail, le henné a tenu plus de deux semaines.",
	"Motifs magnifiques et artiste très patiente.",
	"Parfait pour mon mariage, toutes les invitées ont adoré.",
	"Ponctuelle et très professionnelle, je recommande.",
	"Un moment agréable, le résultat est superbe.",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	days := flag.Int("days", 14, "number of days of slots to create, starting today")
	appointments := flag.Int("appointments", 20, "number of sample appointments")
	reviewCount := flag.Int("reviews", 10, "number of sample reviews")
	flag.Parse()

	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	faker := gofakeit.New(uint64(time.Now().UnixNano()))

	slots, err := seedSlots(context.Background(), pool, *days)
	if err != nil {
		log.Fatalf("seed slots: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, faker, slots, *appointments); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}
	if err := seedReviews(context.Background(), pool, faker, *reviewCount); err != nil {
		log.Fatalf("seed reviews: %v", err)
	}

	log.Println("seed complete")
}

func seedSlots(ctx context.Context, pool *pgxpool.Pool, days int) ([]booking.TimeSlot, error) {
	log.Printf("seeding slots for %d days", days)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var created []booking.TimeSlot
	today := time.Now()
	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, d)
		if date.Weekday() == time.Sunday {
			continue
		}
		for _, t := range slotTimes {
			slot := booking.TimeSlot{ID: uuid.New(), Date: date.Format(booking.DateLayout), Time: t, IsAvailable: true}
			tag, err := tx.Exec(ctx, `
				INSERT INTO time_slots (id, slot_date, slot_time, is_available, created_at)
				VALUES ($1, $2::date, $3, true, now())
				ON CONFLICT (slot_date, slot_time) DO NOTHING
			`, slot.ID, slot.Date, slot.Time)
			if err != nil {
				return nil, err
			}
			if tag.RowsAffected() == 1 {
				created = append(created, slot)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Printf("slots seeded: %d", len(created))
	return created, nil
}

// seedAppointments books some of the new slots and marks them taken.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, slots []booking.TimeSlot, count int) error {
	if count > len(slots) {
		count = len(slots)
	}
	log.Printf("seeding %d appointments", count)

	faker.ShuffleAnySlice(slots)
	statuses := []booking.AppointmentStatus{booking.StatusPending, booking.StatusPending, booking.StatusConfirmed, booking.StatusCancelled}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, slot := range slots[:count] {
		location := booking.LocationDomicile
		var address *string
		if faker.Bool() {
			location = booking.LocationDeplacement
		} else {
			a := faker.Street() + ", " + faker.City()
			address = &a
		}
		var instagram *string
		if faker.Bool() {
			h := "@" + faker.Username()
			instagram = &h
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, client_name, client_email, client_phone, client_instagram, service_type,
				appointment_date, appointment_time, location_type, address, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $11, now(), now())
		`, uuid.New(), faker.Name(), faker.Email(), faker.Phone(), instagram,
			catalog.Types[faker.Number(0, len(catalog.Types)-1)],
			slot.Date, slot.Time, location, address,
			statuses[faker.Number(0, len(statuses)-1)])
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE time_slots SET is_available = false WHERE id = $1`, slot.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}

func seedReviews(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, count int) error {
	log.Printf("seeding %d reviews", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO reviews (id, client_name, service_type, rating, comment, is_published, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now() - make_interval(days => $7))
		`, uuid.New(), faker.FirstName(),
			catalog.Types[faker.Number(0, len(catalog.Types)-1)],
			faker.Number(3, 5), faker.RandomString(sampleComments), faker.Bool(), i)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("reviews seeded")
	return nil
}
