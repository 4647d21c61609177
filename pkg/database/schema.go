package database

// Tables are keyed by run id so repeated runs never overwrite each other.
const schema = `
CREATE TABLE IF NOT EXISTS igbatch_accounts (
	run_id             TEXT    NOT NULL,
	username           TEXT    NOT NULL,
	url                TEXT    NOT NULL,
	url_profile_pic    TEXT    NOT NULL,
	full_name          TEXT    NOT NULL,
	userid             TEXT    NOT NULL,
	is_verified        BOOLEAN NOT NULL,
	has_viewable_story BOOLEAN NOT NULL,
	has_public_story   BOOLEAN NOT NULL,
	biography          TEXT    NOT NULL,
	media_count        INTEGER NOT NULL,
	igtv_count         INTEGER NOT NULL,
	followers          INTEGER NOT NULL,
	followees          INTEGER NOT NULL,
	PRIMARY KEY (run_id, username)
);

CREATE TABLE IF NOT EXISTS igbatch_posts (
	run_id           TEXT             NOT NULL,
	shortcode        TEXT             NOT NULL,
	username         TEXT             NOT NULL,
	date_utc         TIMESTAMPTZ      NOT NULL,
	url_thumbnail    TEXT             NOT NULL,
	url_media        TEXT             NOT NULL,
	is_video         BOOLEAN          NOT NULL,
	is_sponsored     BOOLEAN          NOT NULL,
	hashtags         TEXT[]           NOT NULL,
	mentions         TEXT[]           NOT NULL,
	caption          TEXT             NOT NULL,
	video_view_count INTEGER          NOT NULL,
	video_length     DOUBLE PRECISION NOT NULL,
	likes            INTEGER          NOT NULL,
	comments         INTEGER          NOT NULL,
	location_name    TEXT,
	location_lat     DOUBLE PRECISION,
	location_lng     DOUBLE PRECISION,
	PRIMARY KEY (run_id, shortcode)
);

CREATE TABLE IF NOT EXISTS igbatch_nodes (
	run_id   TEXT NOT NULL,
	username TEXT NOT NULL,
	userid   TEXT NOT NULL,
	PRIMARY KEY (run_id, username)
);

CREATE TABLE IF NOT EXISTS igbatch_edges (
	run_id    TEXT    NOT NULL,
	seq       INTEGER NOT NULL,
	from_user TEXT    NOT NULL,
	to_user   TEXT    NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

const insertAccount = `INSERT INTO igbatch_accounts
	(run_id, username, url, url_profile_pic, full_name, userid, is_verified,
	 has_viewable_story, has_public_story, biography, media_count, igtv_count,
	 followers, followees)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	ON CONFLICT (run_id, username) DO UPDATE SET
	 url_profile_pic = EXCLUDED.url_profile_pic,
	 full_name = EXCLUDED.full_name,
	 userid = EXCLUDED.userid,
	 is_verified = EXCLUDED.is_verified,
	 has_viewable_story = EXCLUDED.has_viewable_story,
	 has_public_story = EXCLUDED.has_public_story,
	 biography = EXCLUDED.biography,
	 media_count = EXCLUDED.media_count,
	 igtv_count = EXCLUDED.igtv_count,
	 followers = EXCLUDED.followers,
	 followees = EXCLUDED.followees`

const insertPost = `INSERT INTO igbatch_posts
	(run_id, shortcode, username, date_utc, url_thumbnail, url_media, is_video,
	 is_sponsored, hashtags, mentions, caption, video_view_count, video_length,
	 likes, comments, location_name, location_lat, location_lng)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	ON CONFLICT (run_id, shortcode) DO NOTHING`

const insertNode = `INSERT INTO igbatch_nodes (run_id, username, userid)
	VALUES ($1,$2,$3)
	ON CONFLICT (run_id, username) DO UPDATE SET userid = EXCLUDED.userid`

const insertEdge = `INSERT INTO igbatch_edges (run_id, seq, from_user, to_user)
	VALUES ($1,$2,$3,$4)
	ON CONFLICT (run_id, seq) DO NOTHING`
