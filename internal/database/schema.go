package database

import (
	"fmt"

	"github.com/gocql/gocql"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id uuid PRIMARY KEY,
		email text,
		full_name text,
		user_type text,
		phone text,
		avatar_url text,
		address map<text, text>,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id uuid,
		password text,
		user_type text
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		farmer_id uuid,
		name text,
		description text,
		price double,
		unit text,
		category text,
		image_url text,
		is_fragile boolean,
		harvest_date timestamp,
		expiration_date timestamp,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS products_by_farmer (
		farmer_id uuid,
		created_at timestamp,
		product_id uuid,
		PRIMARY KEY ((farmer_id), created_at, product_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, product_id ASC)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id uuid PRIMARY KEY,
		consumer_id uuid,
		farmer_id uuid,
		total_price double,
		delivery_address map<text, text>,
		payment_method text,
		status text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS orders_by_consumer (
		consumer_id uuid,
		created_at timestamp,
		order_id uuid,
		PRIMARY KEY ((consumer_id), created_at, order_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, order_id ASC)`,
	`CREATE TABLE IF NOT EXISTS orders_by_farmer (
		farmer_id uuid,
		status text,
		created_at timestamp,
		order_id uuid,
		PRIMARY KEY ((farmer_id, status), created_at, order_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, order_id ASC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id uuid,
		product_id uuid,
		product_name text,
		quantity int,
		price_at_purchase double,
		PRIMARY KEY ((order_id), product_id)
	)`,
}

// EnsureSchema cria o keyspace e as tabelas se ainda não existirem.
func EnsureSchema(session *gocql.Session, keyspace string) error {
	ks := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, keyspace)
	if err := session.Query(ks).Exec(); err != nil {
		return fmt.Errorf("criação do keyspace %s: %w", keyspace, err)
	}

	for _, stmt := range tables {
		if err := session.Query(useKeyspace(keyspace, stmt)).Exec(); err != nil {
			return fmt.Errorf("criação de tabela: %w", err)
		}
	}
	return nil
}

// useKeyspace qualifica o nome da tabela com o keyspace.
func useKeyspace(keyspace, stmt string) string {
	const prefix = "CREATE TABLE IF NOT EXISTS "
	return prefix + keyspace + "." + stmt[len(prefix):]
}
