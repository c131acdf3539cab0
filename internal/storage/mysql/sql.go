package mysql

const listFlightsByRouteSQL = `
SELECT id, origin_country, origin_airport, destination_country, destination_airport,
       departure_time, arrival_time, duration, flight_code
FROM flight
WHERE origin_country = ? AND destination_country = ?
ORDER BY departure_time
`

const listHotelsByCountrySQL = `
SELECT id, name, address, city, country, rating, booking_url, price_per_night, amenities
FROM hotel
WHERE country = ?
ORDER BY rating DESC, id
`

const listCarRentalsByCountrySQL = `
SELECT id, model_name, provider_name, service_type, city, country,
       price_per_day, booking_url, miles_eligible
FROM car_rental
WHERE country = ?
ORDER BY price_per_day, id
`

const listActivitiesSQL = `
SELECT id, activity_name, type, description
FROM flight_activity
ORDER BY activity_name
`

const listShopItemsSQL = `
SELECT id, item_name, description, category
FROM cathay_shop_item
ORDER BY item_name
`

const insertFormSQL = `
INSERT INTO form
  (theme, event_name, event_date, event_time, event_country, event_address,
   origin_country, destination_country, flight_timing_preference, group_size,
   has_entertainment, has_culinary, has_merchandise)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getFormSQL = `
SELECT theme, event_name, event_date, event_time, event_country, event_address,
       origin_country, destination_country, flight_timing_preference, group_size,
       has_entertainment, has_culinary, has_merchandise
FROM form
WHERE id = ?
`

const latestFormIDSQL = `
SELECT id FROM form ORDER BY created_at DESC, id DESC LIMIT 1
`

const flightIDByCodeSQL = `
SELECT id FROM flight WHERE flight_code = ? LIMIT 1
`

const updateFormFlightSQL = `
UPDATE form SET flight_id = ? WHERE id = ?
`

const insertScheduleEntrySQL = `
INSERT INTO proposed_flight_activity
  (id, form_id, start_time, duration, type, name, description, cathay_shop_item)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// ----------------------------------------------------------------------------
// seeder upserts
// ----------------------------------------------------------------------------

const upsertFlightSQL = `
INSERT INTO flight
  (id, origin_country, origin_airport, destination_country, destination_airport,
   departure_time, arrival_time, duration, flight_code)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  origin_country      = VALUES(origin_country),
  origin_airport      = VALUES(origin_airport),
  destination_country = VALUES(destination_country),
  destination_airport = VALUES(destination_airport),
  departure_time      = VALUES(departure_time),
  arrival_time        = VALUES(arrival_time),
  duration            = VALUES(duration)
`

const upsertHotelSQL = `
INSERT INTO hotel
  (id, name, address, city, country, rating, booking_url, price_per_night, amenities)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  address         = VALUES(address),
  city            = VALUES(city),
  country         = VALUES(country),
  rating          = VALUES(rating),
  booking_url     = VALUES(booking_url),
  price_per_night = VALUES(price_per_night),
  amenities       = VALUES(amenities)
`

const upsertCarRentalSQL = `
INSERT INTO car_rental
  (id, model_name, provider_name, service_type, city, country,
   price_per_day, booking_url, miles_eligible)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  provider_name  = VALUES(provider_name),
  service_type   = VALUES(service_type),
  city           = VALUES(city),
  country        = VALUES(country),
  price_per_day  = VALUES(price_per_day),
  booking_url    = VALUES(booking_url),
  miles_eligible = VALUES(miles_eligible)
`

const upsertActivitySQL = `
INSERT INTO flight_activity (id, activity_name, type, description)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  type        = VALUES(type),
  description = VALUES(description)
`

const upsertShopItemSQL = `
INSERT INTO cathay_shop_item (id, item_name, description, category)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  description = VALUES(description),
  category    = VALUES(category)
`
