package storage

const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
	id VARCHAR(100) PRIMARY KEY,
	identification_code VARCHAR(100),
	name VARCHAR(500) NOT NULL,
	image TEXT,
	is_cancelled BOOLEAN NOT NULL DEFAULT FALSE,
	start_date_time TIMESTAMPTZ,
	end_date_time TIMESTAMPTZ,
	time_zone VARCHAR(100),
	url TEXT,
	root_provider_id VARCHAR(100),
	location_id VARCHAR(100),
	location_name VARCHAR(500),
	town VARCHAR(200),
	county VARCHAR(200),
	address VARCHAR(500),
	postcode VARCHAR(50),
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	level_id VARCHAR(100),
	level_name VARCHAR(200),
	level_category VARCHAR(200),
	organization_id VARCHAR(100),
	organization_name VARCHAR(500),
	organization_conference VARCHAR(200),
	organization_division VARCHAR(100),
	entries_open TIMESTAMPTZ,
	entries_close TIMESTAMPTZ,
	registration_status VARCHAR(20) NOT NULL DEFAULT 'UPCOMING',
	is_dual_match BOOLEAN NOT NULL DEFAULT FALSE,
	tournament_type VARCHAR(50) NOT NULL DEFAULT 'TOURNAMENT',
	gender VARCHAR(20),
	event_types VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tournaments_start ON tournaments(start_date_time);
CREATE INDEX IF NOT EXISTS idx_tournaments_gender ON tournaments(gender);

CREATE TABLE IF NOT EXISTS tournament_events (
	id VARCHAR(100) PRIMARY KEY,
	tournament_id VARCHAR(100) NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
	gender VARCHAR(20),
	event_type VARCHAR(20),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tournament_events_tournament ON tournament_events(tournament_id);

CREATE TABLE IF NOT EXISTS tournament_players (
	id VARCHAR(250) PRIMARY KEY,
	tournament_id VARCHAR(100) NOT NULL,
	player_id VARCHAR(100) NOT NULL,
	first_name VARCHAR(200),
	last_name VARCHAR(200),
	player_name VARCHAR(400),
	gender VARCHAR(20),
	city VARCHAR(200),
	state VARCHAR(50),
	events_participating VARCHAR(100) NOT NULL DEFAULT '',
	singles_event_id VARCHAR(100),
	doubles_event_id VARCHAR(100),
	player2_id VARCHAR(100),
	player2_first_name VARCHAR(200),
	player2_last_name VARCHAR(200),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tournament_players_tournament ON tournament_players(tournament_id);
CREATE INDEX IF NOT EXISTS idx_tournament_players_player ON tournament_players(player_id);
CREATE INDEX IF NOT EXISTS idx_tournament_players_state ON tournament_players(state);

CREATE TABLE IF NOT EXISTS draws (
	id VARCHAR(100) PRIMARY KEY,
	tournament_id VARCHAR(100) NOT NULL,
	event_id VARCHAR(100) NOT NULL,
	name VARCHAR(500),
	draw_type VARCHAR(100),
	size INTEGER NOT NULL DEFAULT 0,
	event_type VARCHAR(20) NOT NULL,
	gender VARCHAR(20) NOT NULL,
	active BOOLEAN NOT NULL DEFAULT FALSE,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	match_up_format VARCHAR(100),
	updated_at_api VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_draws_tournament ON draws(tournament_id);

CREATE TABLE IF NOT EXISTS tournament_matches (
	id VARCHAR(100) PRIMARY KEY,
	draw_id VARCHAR(100) NOT NULL,
	tournament_id VARCHAR(100) NOT NULL,
	event_id VARCHAR(100) NOT NULL,
	round_name VARCHAR(100),
	round_number INTEGER NOT NULL DEFAULT 0,
	round_position INTEGER NOT NULL DEFAULT 0,
	match_type VARCHAR(20),
	format VARCHAR(100),
	status VARCHAR(50),
	stage VARCHAR(50),
	structure_name VARCHAR(200),
	winning_side INTEGER,
	scheduled_date VARCHAR(50),
	scheduled_time VARCHAR(50),
	venue_name VARCHAR(200),
	score_side1 VARCHAR(100),
	score_side2 VARCHAR(100),
	side1_participant_id VARCHAR(100),
	side1_participant_name VARCHAR(400),
	side1_player1_id VARCHAR(100),
	side1_player2_id VARCHAR(100),
	side1_school_id VARCHAR(100),
	side1_school_name VARCHAR(400),
	side1_seed INTEGER,
	side1_draw_position INTEGER,
	side2_participant_id VARCHAR(100),
	side2_participant_name VARCHAR(400),
	side2_player1_id VARCHAR(100),
	side2_player2_id VARCHAR(100),
	side2_school_id VARCHAR(100),
	side2_school_name VARCHAR(400),
	side2_seed INTEGER,
	side2_draw_position INTEGER,
	winner_id VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tournament_matches_draw ON tournament_matches(draw_id);
CREATE INDEX IF NOT EXISTS idx_tournament_matches_tournament ON tournament_matches(tournament_id);
CREATE INDEX IF NOT EXISTS idx_tournament_matches_side1_player ON tournament_matches(side1_player1_id);
CREATE INDEX IF NOT EXISTS idx_tournament_matches_side2_player ON tournament_matches(side2_player1_id);

CREATE TABLE IF NOT EXISTS teams (
	id VARCHAR(100) PRIMARY KEY,
	name VARCHAR(500) NOT NULL,
	abbreviation VARCHAR(50),
	division VARCHAR(50),
	conference VARCHAR(200),
	region VARCHAR(200),
	gender VARCHAR(20),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_teams_upper_id ON teams(UPPER(id));

CREATE TABLE IF NOT EXISTS school_info (
	id VARCHAR(100) PRIMARY KEY,
	name VARCHAR(500) NOT NULL,
	conference VARCHAR(200),
	ita_region VARCHAR(200),
	ranking_award_region VARCHAR(200),
	usta_section VARCHAR(200),
	man_id VARCHAR(100),
	woman_id VARCHAR(100),
	division VARCHAR(50),
	mailing_address VARCHAR(500),
	city VARCHAR(200),
	state VARCHAR(50),
	zip_code VARCHAR(20),
	team_type VARCHAR(50),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_school_info_upper_man ON school_info(UPPER(man_id));
CREATE INDEX IF NOT EXISTS idx_school_info_upper_woman ON school_info(UPPER(woman_id));

CREATE TABLE IF NOT EXISTS matches (
	id VARCHAR(100) PRIMARY KEY,
	start_date TIMESTAMPTZ,
	time_zone VARCHAR(100),
	no_scheduled_time BOOLEAN NOT NULL DEFAULT FALSE,
	is_conference_match BOOLEAN NOT NULL DEFAULT FALSE,
	gender VARCHAR(20),
	home_team_id VARCHAR(100),
	away_team_id VARCHAR(100),
	season VARCHAR(20),
	side_numbers INTEGER NOT NULL DEFAULT 0,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	scheduled_time TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_matches_start ON matches(start_date);
CREATE INDEX IF NOT EXISTS idx_matches_home ON matches(home_team_id);
CREATE INDEX IF NOT EXISTS idx_matches_away ON matches(away_team_id);

CREATE TABLE IF NOT EXISTS match_teams (
	match_id VARCHAR(100) NOT NULL,
	team_id VARCHAR(100) NOT NULL,
	score DOUBLE PRECISION,
	did_win BOOLEAN,
	side_number INTEGER,
	is_home_team BOOLEAN NOT NULL DEFAULT FALSE,
	team_position VARCHAR(10) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (match_id, team_id)
);

CREATE TABLE IF NOT EXISTS web_links (
	match_id VARCHAR(100) NOT NULL,
	url TEXT NOT NULL,
	name VARCHAR(200),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (match_id, url)
);

CREATE TABLE IF NOT EXISTS match_lineups (
	id VARCHAR(100) PRIMARY KEY,
	match_id VARCHAR(100) NOT NULL,
	match_type VARCHAR(20),
	position INTEGER,
	collection_id VARCHAR(100),
	side1_player1_id VARCHAR(100),
	side1_player2_id VARCHAR(100),
	side2_player1_id VARCHAR(100),
	side2_player2_id VARCHAR(100),
	side1_score VARCHAR(100),
	side2_score VARCHAR(100),
	side1_won BOOLEAN NOT NULL DEFAULT FALSE,
	side2_won BOOLEAN NOT NULL DEFAULT FALSE,
	side1_name VARCHAR(100),
	side2_name VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_match_lineups_match ON match_lineups(match_id);

CREATE TABLE IF NOT EXISTS match_lineup_sets (
	lineup_id VARCHAR(100) NOT NULL REFERENCES match_lineups(id) ON DELETE CASCADE,
	set_number INTEGER NOT NULL,
	side1_score INTEGER NOT NULL,
	side2_score INTEGER NOT NULL,
	side1_tiebreak INTEGER,
	side2_tiebreak INTEGER,
	side1_won BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (lineup_id, set_number)
);

CREATE TABLE IF NOT EXISTS seasons (
	id VARCHAR(100) PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	status VARCHAR(20) NOT NULL,
	start_date TIMESTAMPTZ,
	end_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
	person_id VARCHAR(100) PRIMARY KEY,
	tennis_id VARCHAR(100),
	first_name VARCHAR(200),
	last_name VARCHAR(200),
	avatar_url TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS player_seasons (
	person_id VARCHAR(100) NOT NULL,
	season_id VARCHAR(100) NOT NULL,
	class_year VARCHAR(50),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (person_id, season_id)
);
CREATE INDEX IF NOT EXISTS idx_player_seasons_season ON player_seasons(season_id);

CREATE TABLE IF NOT EXISTS player_rosters (
	person_id VARCHAR(100) NOT NULL,
	season_id VARCHAR(100) NOT NULL,
	team_id VARCHAR(100) NOT NULL,
	school_id VARCHAR(100),
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (person_id, season_id, team_id)
);
CREATE INDEX IF NOT EXISTS idx_player_rosters_season ON player_rosters(season_id);

CREATE TABLE IF NOT EXISTS player_wtn (
	person_id VARCHAR(100) NOT NULL,
	season_id VARCHAR(100) NOT NULL,
	wtn_type VARCHAR(20) NOT NULL,
	confidence INTEGER,
	tennis_number DOUBLE PRECISION,
	is_ranked BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (person_id, season_id, wtn_type)
);

CREATE TABLE IF NOT EXISTS player_matches (
	match_identifier VARCHAR(500) PRIMARY KEY,
	winning_side INTEGER,
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	match_type VARCHAR(20),
	match_format VARCHAR(100),
	status VARCHAR(50),
	round_name VARCHAR(100),
	collection_position INTEGER,
	tournament_id VARCHAR(100),
	score_string VARCHAR(100),
	source VARCHAR(20) NOT NULL DEFAULT 'UNKNOWN',
	dual_match_id VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_player_matches_start ON player_matches(start_time);
CREATE INDEX IF NOT EXISTS idx_player_matches_tournament ON player_matches(tournament_id);

CREATE TABLE IF NOT EXISTS player_match_sets (
	match_identifier VARCHAR(500) NOT NULL REFERENCES player_matches(match_identifier) ON DELETE CASCADE,
	set_number INTEGER NOT NULL,
	winner_games_won INTEGER,
	loser_games_won INTEGER,
	win_ratio DOUBLE PRECISION,
	tiebreak_winner_points INTEGER,
	tiebreak_loser_points INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (match_identifier, set_number)
);

CREATE TABLE IF NOT EXISTS player_match_participants (
	match_identifier VARCHAR(500) NOT NULL REFERENCES player_matches(match_identifier) ON DELETE CASCADE,
	person_id VARCHAR(100) NOT NULL,
	team_id VARCHAR(100),
	side_number INTEGER NOT NULL,
	family_name VARCHAR(200),
	given_name VARCHAR(200),
	is_winner BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (match_identifier, person_id)
);
CREATE INDEX IF NOT EXISTS idx_player_match_participants_person ON player_match_participants(person_id);

CREATE TABLE IF NOT EXISTS ranking_lists (
	id VARCHAR(100) PRIMARY KEY,
	division_type VARCHAR(50) NOT NULL,
	gender VARCHAR(10) NOT NULL,
	match_format VARCHAR(20) NOT NULL,
	publish_date TIMESTAMPTZ,
	planned_publish_date TIMESTAMPTZ,
	date_range_start TIMESTAMPTZ,
	date_range_end TIMESTAMPTZ,
	upstream_created_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ranking_lists_kind ON ranking_lists(division_type, gender, match_format, planned_publish_date);

CREATE TABLE IF NOT EXISTS team_rankings (
	ranking_list_id VARCHAR(100) NOT NULL REFERENCES ranking_lists(id) ON DELETE CASCADE,
	team_id VARCHAR(100) NOT NULL,
	rank INTEGER NOT NULL,
	points DOUBLE PRECISION,
	wins INTEGER,
	losses INTEGER,
	team_name VARCHAR(200) NOT NULL,
	conference VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (ranking_list_id, team_id)
);
CREATE INDEX IF NOT EXISTS idx_team_rankings_team ON team_rankings(team_id);

CREATE TABLE IF NOT EXISTS player_rankings (
	ranking_list_id VARCHAR(100) NOT NULL REFERENCES ranking_lists(id) ON DELETE CASCADE,
	player_id VARCHAR(100) NOT NULL,
	team_id VARCHAR(100) NOT NULL,
	rank INTEGER NOT NULL,
	points DOUBLE PRECISION,
	wins INTEGER,
	losses INTEGER,
	player_name VARCHAR(200) NOT NULL,
	team_name VARCHAR(200) NOT NULL,
	conference VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (ranking_list_id, player_id)
);
CREATE INDEX IF NOT EXISTS idx_player_rankings_player ON player_rankings(player_id);

CREATE TABLE IF NOT EXISTS doubles_rankings (
	ranking_list_id VARCHAR(100) NOT NULL REFERENCES ranking_lists(id) ON DELETE CASCADE,
	team_id VARCHAR(100) NOT NULL,
	player1_id VARCHAR(100) NOT NULL,
	player2_id VARCHAR(100) NOT NULL,
	rank INTEGER NOT NULL,
	points DOUBLE PRECISION,
	wins INTEGER,
	losses INTEGER,
	player1_name VARCHAR(200) NOT NULL,
	player2_name VARCHAR(200) NOT NULL,
	team_name VARCHAR(200) NOT NULL,
	conference VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (ranking_list_id, player1_id, player2_id)
);
CREATE INDEX IF NOT EXISTS idx_doubles_rankings_player1 ON doubles_rankings(player1_id);
CREATE INDEX IF NOT EXISTS idx_doubles_rankings_player2 ON doubles_rankings(player2_id);
`
