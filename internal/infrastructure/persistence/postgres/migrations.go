package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create accounts table
-- Version: 001

CREATE TABLE IF NOT EXISTS accounts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(254) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    experience INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    total_sessions INTEGER NOT NULL DEFAULT 0,
    total_minutes INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_session_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_experience CHECK (experience >= 0),
    CONSTRAINT valid_level CHECK (level >= 1),
    CONSTRAINT valid_totals CHECK (total_sessions >= 0 AND total_minutes >= 0),
    CONSTRAINT valid_streaks CHECK (current_streak >= 0 AND longest_streak >= current_streak)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);

-- Composite index matching the leaderboard ordering contract:
-- experience DESC, then total_minutes DESC as the tie-breaker.
CREATE INDEX IF NOT EXISTS idx_accounts_ranking
    ON accounts(experience DESC, total_minutes DESC)
    WHERE total_sessions > 0;
`

const migration001Down = `
DROP TABLE IF EXISTS accounts;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create meditation sessions ledger
-- Version: 002

CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    duration_minutes INTEGER NOT NULL,
    frequency VARCHAR(20) NOT NULL,
    state VARCHAR(20) NOT NULL DEFAULT 'active',
    paused BOOLEAN NOT NULL DEFAULT FALSE,
    pause_count INTEGER NOT NULL DEFAULT 0,
    actual_duration_minutes INTEGER NOT NULL DEFAULT 0,
    xp_gained INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMP WITH TIME ZONE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_duration CHECK (duration_minutes BETWEEN 1 AND 120),
    CONSTRAINT valid_frequency CHECK (frequency IN ('alpha', 'theta', 'beta', 'delta')),
    CONSTRAINT valid_state CHECK (state IN ('active', 'paused', 'completed')),
    CONSTRAINT completed_has_timestamp CHECK (state != 'completed' OR completed_at IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_sessions_account_id ON sessions(account_id);

-- Composite index for session history (completed sessions, newest first)
CREATE INDEX IF NOT EXISTS idx_sessions_history
    ON sessions(account_id, completed_at DESC)
    WHERE state = 'completed';
`

const migration002Down = `
DROP TABLE IF EXISTS sessions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE SOCIAL GRAPH
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create friendships, groups and memberships
-- Version: 003

CREATE TABLE IF NOT EXISTS friendships (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id_1 UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    user_id_2 UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_friendship_status CHECK (status IN ('pending', 'accepted')),
    CONSTRAINT no_self_friendship CHECK (user_id_1 != user_id_2)
);

-- One edge per unordered pair: column order encodes initiator/recipient,
-- so uniqueness is enforced over the normalized pair instead.
CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair
    ON friendships(LEAST(user_id_1, user_id_2), GREATEST(user_id_1, user_id_2));

CREATE INDEX IF NOT EXISTS idx_friendships_user_1 ON friendships(user_id_1, status);
CREATE INDEX IF NOT EXISTS idx_friendships_user_2 ON friendships(user_id_2, status);

CREATE TABLE IF NOT EXISTS groups (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    is_public BOOLEAN NOT NULL DEFAULT TRUE,
    code VARCHAR(6) NOT NULL UNIQUE,
    member_count INTEGER NOT NULL DEFAULT 1,
    max_members INTEGER NOT NULL DEFAULT 50,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_member_count CHECK (member_count >= 0 AND member_count <= max_members),
    CONSTRAINT valid_group_code CHECK (code ~ '^[A-Z0-9]{6}$')
);

CREATE INDEX IF NOT EXISTS idx_groups_code ON groups(code);
CREATE INDEX IF NOT EXISTS idx_groups_public ON groups(created_at DESC) WHERE is_public;

CREATE TABLE IF NOT EXISTS group_members (
    group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    role VARCHAR(20) NOT NULL DEFAULT 'member',
    joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (group_id, account_id),
    CONSTRAINT valid_role CHECK (role IN ('member', 'admin'))
);

CREATE INDEX IF NOT EXISTS idx_group_members_account ON group_members(account_id);
CREATE INDEX IF NOT EXISTS idx_group_members_tenure ON group_members(group_id, joined_at);
`

const migration003Down = `
DROP TABLE IF EXISTS group_members;
DROP TABLE IF EXISTS groups;
DROP TABLE IF EXISTS friendships;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE QUOTES
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create daily quote catalog
-- Version: 004

CREATE TABLE IF NOT EXISTS quotes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    text TEXT NOT NULL,
    author VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Stable catalog ordering for the daily rotation
CREATE INDEX IF NOT EXISTS idx_quotes_catalog_order ON quotes(created_at, id);

-- Seed catalog so the daily rotation has something to serve from day one.
INSERT INTO quotes (text, author)
SELECT v.text, v.author
FROM (VALUES
    ('The quieter you become, the more you can hear.', 'Ram Dass'),
    ('Feelings come and go like clouds in a windy sky. Conscious breathing is my anchor.', 'Thich Nhat Hanh'),
    ('You should sit in meditation for twenty minutes every day, unless you are too busy. Then you should sit for an hour.', 'Zen proverb'),
    ('Wherever you are, be there totally.', 'Eckhart Tolle'),
    ('The mind is everything. What you think you become.', 'Buddha'),
    ('Meditation is not evasion; it is a serene encounter with reality.', 'Thich Nhat Hanh'),
    ('Within you there is a stillness and a sanctuary to which you can retreat at any time.', 'Hermann Hesse'),
    ('Be where you are, otherwise you will miss your life.', 'Buddha')
) AS v(text, author)
WHERE NOT EXISTS (SELECT 1 FROM quotes);
`

const migration004Down = `
DROP TABLE IF EXISTS quotes;
`
