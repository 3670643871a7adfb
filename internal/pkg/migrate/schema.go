package migrate

// Schema lists the full ledger schema in application order.
var Schema = []Migration{
	{
		Version: 1,
		Name:    "create_accounts",
		SQL: `
			CREATE TABLE IF NOT EXISTS accounts (
				id                  UUID PRIMARY KEY,
				wallet_balance      NUMERIC(18,4) NOT NULL DEFAULT 0,
				cumulative_earnings NUMERIC(18,4) NOT NULL DEFAULT 0,
				amount_to_pay       NUMERIC(18,4) NOT NULL DEFAULT 0,
				referrer_id         UUID NULL,
				activation_status   TEXT NOT NULL DEFAULT 'pending',
				earning_currency    TEXT NOT NULL DEFAULT 'USD',
				created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_accounts_referrer ON accounts (referrer_id);
		`,
	},
	{
		Version: 2,
		Name:    "create_referrals",
		SQL: `
			CREATE TABLE IF NOT EXISTS referrals (
				id          UUID PRIMARY KEY,
				referrer_id UUID NOT NULL REFERENCES accounts (id),
				referred_id UUID NOT NULL UNIQUE REFERENCES accounts (id),
				status      TEXT NOT NULL DEFAULT 'pending',
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals (referrer_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_commission_records",
		SQL: `
			CREATE TABLE IF NOT EXISTS commission_records (
				id                     UUID PRIMARY KEY,
				event_type             TEXT NOT NULL,
				source_account_id      UUID NOT NULL REFERENCES accounts (id),
				beneficiary_account_id UUID NOT NULL REFERENCES accounts (id),
				level                  INT NOT NULL,
				amount_source          NUMERIC(18,4) NOT NULL,
				amount_usd             NUMERIC(18,4) NOT NULL,
				currency               TEXT NOT NULL,
				status                 TEXT NOT NULL DEFAULT 'paid',
				created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS uq_commission_once
				ON commission_records (source_account_id, beneficiary_account_id, level, event_type)
				WHERE status <> 'cancelled';
		`,
	},
	{
		Version: 4,
		Name:    "create_monetized_units",
		SQL: `
			CREATE TABLE IF NOT EXISTS monetized_units (
				id                  UUID PRIMARY KEY,
				owner_account_id    UUID NOT NULL REFERENCES accounts (id),
				kind                TEXT NOT NULL,
				target_url          TEXT NOT NULL,
				cost_per_click      NUMERIC(18,4) NOT NULL DEFAULT 0,
				cost_per_impression NUMERIC(18,4) NOT NULL DEFAULT 0,
				click_target        BIGINT NOT NULL DEFAULT 0,
				clicks_so_far       BIGINT NOT NULL DEFAULT 0,
				impressions_so_far  BIGINT NOT NULL DEFAULT 0,
				is_active           BOOLEAN NOT NULL DEFAULT false,
				created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_units_owner ON monetized_units (owner_account_id);
		`,
	},
	{
		Version: 5,
		Name:    "create_unit_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS unit_events (
				id         UUID PRIMARY KEY,
				unit_id    UUID NOT NULL REFERENCES monetized_units (id),
				event_type TEXT NOT NULL,
				actor_id   UUID NULL,
				ip         TEXT NOT NULL DEFAULT '',
				user_agent TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_unit_events_unit ON unit_events (unit_id, event_type);
		`,
	},
	{
		Version: 6,
		Name:    "create_ledger_transactions",
		SQL: `
			CREATE TABLE IF NOT EXISTS ledger_transactions (
				id         UUID PRIMARY KEY,
				account_id UUID NOT NULL REFERENCES accounts (id),
				kind       TEXT NOT NULL,
				amount     NUMERIC(18,4) NOT NULL,
				status     TEXT NOT NULL DEFAULT 'completed',
				reference  TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_ledger_account_kind ON ledger_transactions (account_id, kind);
		`,
	},
	{
		Version: 7,
		Name:    "create_exchange_rates",
		SQL: `
			CREATE TABLE IF NOT EXISTS exchange_rates (
				from_unit  TEXT NOT NULL,
				to_unit    TEXT NOT NULL,
				rate       NUMERIC(18,8) NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				PRIMARY KEY (from_unit, to_unit)
			);
		`,
	},
	{
		Version: 8,
		Name:    "create_system_settings",
		SQL: `
			CREATE TABLE IF NOT EXISTS system_settings (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`,
	},
	{
		Version: 9,
		Name:    "create_notifications",
		SQL: `
			CREATE TABLE IF NOT EXISTS notifications (
				id         UUID PRIMARY KEY,
				account_id UUID NOT NULL,
				kind       TEXT NOT NULL,
				payload    JSONB NOT NULL DEFAULT '{}',
				is_read    BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_account ON notifications (account_id);
		`,
	},
}
