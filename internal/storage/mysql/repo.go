package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

/********** candidate pools (read-only) **********/

func (r *Repo) FlightsByRoute(ctx context.Context, originCountry, destCountry string) ([]domain.FlightCandidate, error) {
	rows, err := r.db.QueryContext(ctx, listFlightsByRouteSQL, originCountry, destCountry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FlightCandidate
	for rows.Next() {
		var f domain.FlightCandidate
		var dep, arr time.Time
		if err := rows.Scan(&f.ID, &f.OriginCountry, &f.OriginAirport,
			&f.DestinationCountry, &f.DestinationAirport,
			&dep, &arr, &f.Duration, &f.FlightCode); err != nil {
			return nil, err
		}
		f.DepartureTime, f.ArrivalTime = dep, arr
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) HotelsByCountry(ctx context.Context, country string) ([]domain.HotelCandidate, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsByCountrySQL, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelCandidate
	for rows.Next() {
		var h domain.HotelCandidate
		var bookingURL sql.NullString
		var amenitiesJSON []byte
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.Country,
			&h.Rating, &bookingURL, &h.PricePerNight, &amenitiesJSON); err != nil {
			return nil, err
		}
		h.BookingURL = bookingURL.String
		_ = json.Unmarshal(amenitiesJSON, &h.Amenities)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) CarRentalsByCountry(ctx context.Context, country string) ([]domain.CarRentalCandidate, error) {
	rows, err := r.db.QueryContext(ctx, listCarRentalsByCountrySQL, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CarRentalCandidate
	for rows.Next() {
		var c domain.CarRentalCandidate
		var bookingURL sql.NullString
		if err := rows.Scan(&c.ID, &c.ModelName, &c.ProviderName, &c.ServiceType,
			&c.City, &c.Country, &c.PricePerDay, &bookingURL, &c.MilesEligible); err != nil {
			return nil, err
		}
		c.BookingURL = bookingURL.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Activities(ctx context.Context) ([]domain.ActivityCandidate, error) {
	rows, err := r.db.QueryContext(ctx, listActivitiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityCandidate
	for rows.Next() {
		var a domain.ActivityCandidate
		var desc sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &desc); err != nil {
			return nil, err
		}
		a.Description = desc.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) ShopItems(ctx context.Context) ([]domain.ShopItem, error) {
	rows, err := r.db.QueryContext(ctx, listShopItemsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ShopItem
	for rows.Next() {
		var s domain.ShopItem
		var desc, cat sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &desc, &cat); err != nil {
			return nil, err
		}
		s.Description, s.Category = desc.String, cat.String
		out = append(out, s)
	}
	return out, rows.Err()
}

/********** form records & durable pipeline writes **********/

func (r *Repo) InsertForm(ctx context.Context, req domain.EventRequest) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertFormSQL,
		string(req.Theme), req.EventName, req.EventDate, req.EventTime,
		req.EventLocation.Country, req.EventLocation.Address,
		req.OriginCountry, req.DestinationCountry,
		string(req.TimingPreference), req.GroupSize,
		req.HasEntertainment, req.HasCulinary, req.HasMerchandise,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetForm(ctx context.Context, id int64) (domain.EventRequest, error) {
	row := r.db.QueryRowContext(ctx, getFormSQL, id)

	var req domain.EventRequest
	var theme, pref string
	if err := row.Scan(&theme, &req.EventName, &req.EventDate, &req.EventTime,
		&req.EventLocation.Country, &req.EventLocation.Address,
		&req.OriginCountry, &req.DestinationCountry, &pref, &req.GroupSize,
		&req.HasEntertainment, &req.HasCulinary, &req.HasMerchandise); err != nil {
		if err == sql.ErrNoRows {
			return domain.EventRequest{}, domain.ErrNotFound
		}
		return domain.EventRequest{}, err
	}
	req.FormID = id
	req.Theme = domain.Theme(theme)
	req.TimingPreference = domain.TimingPreference(pref)
	return req, nil
}

func (r *Repo) LatestFormID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, latestFormIDSQL).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) FlightIDByCode(ctx context.Context, code string) (string, error) {
	var id string
	if err := r.db.QueryRowContext(ctx, flightIDByCodeSQL, code).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (r *Repo) UpdateFormFlight(ctx context.Context, formID int64, flightID string) error {
	_, err := r.db.ExecContext(ctx, updateFormFlightSQL, flightID, formID)
	return err
}

// InsertScheduleEntries writes one activity row per entry, in schedule
// order, each tagged with its derived category. No transaction wraps the
// batch; a mid-batch failure leaves earlier rows in place.
func (r *Repo) InsertScheduleEntries(ctx context.Context, formID int64, entries []domain.ScheduleEntry) error {
	for _, e := range entries {
		var item any
		if e.FeaturedItem != "" {
			item = e.FeaturedItem
		}
		_, err := r.db.ExecContext(ctx, insertScheduleEntrySQL,
			uuid.NewString(), formID, e.StartTime, e.Duration,
			string(domain.ClassifyActivity(e.Name)), e.Name, e.Description, item,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

/********** seeder upserts **********/

func (r *Repo) UpsertFlight(ctx context.Context, f domain.FlightCandidate) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, upsertFlightSQL,
		f.ID, f.OriginCountry, f.OriginAirport, f.DestinationCountry, f.DestinationAirport,
		f.DepartureTime, f.ArrivalTime, f.Duration, f.FlightCode)
	return err
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.HotelCandidate) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	amen, _ := json.Marshal(h.Amenities)
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID, h.Name, h.Address, h.City, h.Country, h.Rating, h.BookingURL,
		h.PricePerNight, string(amen))
	return err
}

func (r *Repo) UpsertCarRental(ctx context.Context, c domain.CarRentalCandidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, upsertCarRentalSQL,
		c.ID, c.ModelName, c.ProviderName, c.ServiceType, c.City, c.Country,
		c.PricePerDay, c.BookingURL, c.MilesEligible)
	return err
}

func (r *Repo) UpsertActivity(ctx context.Context, a domain.ActivityCandidate) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, upsertActivitySQL, a.ID, a.Name, a.Type, a.Description)
	return err
}

func (r *Repo) UpsertShopItem(ctx context.Context, s domain.ShopItem) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, upsertShopItemSQL, s.ID, s.Name, s.Description, s.Category)
	return err
}
