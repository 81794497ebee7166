package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thehowl/ppsim/internal/hits"
)

const (
	stdMD5   = "0123456789abcdef0123456789abcdef"
	maniaMD5 = "fedcba9876543210fedcba9876543210"
	catchMD5 = "00112233445566778899aabbccddeeff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB points the service at a fresh in-memory database holding a
// 1000 object standard map, an 800 note mania map and a catch map with a
// max combo of 390.
func setupTestDB(t *testing.T) {
	t.Helper()
	conn, err := openDB("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	db = conn
	api = nil
	cf = confSt{MapsDir: t.TempDir()}

	for _, bm := range []beatmap{
		{MD5: stdMD5, OsuID: 100, Mode: hits.ModeStandard, Circles: 1000, MaxCombo: 1000},
		{MD5: maniaMD5, OsuID: 200, Mode: hits.ModeMania, Circles: 600, Holds: 200, MaxCombo: 800},
		{MD5: catchMD5, OsuID: 300, Mode: hits.ModeCatch, Circles: 250, Sliders: 40, MaxCombo: 390},
	} {
		if _, err := insertBeatmap(bm); err != nil {
			t.Fatal(err)
		}
	}
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return serve(t, req)
}

func serve(t *testing.T, req *http.Request) (int, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, req)
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func decodePlay(t *testing.T, raw json.RawMessage) playJSON {
	t.Helper()
	var p playJSON
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSimulatePOST(t *testing.T) {
	setupTestDB(t)

	code, resp := doJSON(t, "POST", "/api/v1/simulate", `{"beatmap_hash":"`+stdMD5+`","accuracy":99}`)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	p := decodePlay(t, resp["play"])
	if p.N300 != 985 || p.N100 != 15 || p.N50 != 0 || p.Misses != 0 {
		t.Errorf("play = %s, want {985/15/0/0}", p.Hits)
	}
	if p.Combo != 1000 || p.Grade != "S" || p.Mode != "osu" {
		t.Errorf("play = %+v", p)
	}
	if p.ScoreID == 0 {
		t.Fatal("simulation was not stored")
	}

	// same request, same stored score
	_, resp = doJSON(t, "POST", "/api/v1/simulate", `{"beatmap_hash":"`+stdMD5+`","accuracy":99}`)
	if again := decodePlay(t, resp["play"]); again.ScoreID != p.ScoreID {
		t.Errorf("score_id = %d on repeat, want %d", again.ScoreID, p.ScoreID)
	}

	// lookup by osu! beatmap id works the same
	_, resp = doJSON(t, "POST", "/api/v1/simulate", `{"beatmap_id":100,"misses":2,"combo":400}`)
	p = decodePlay(t, resp["play"])
	if p.N300 != 998 || p.Misses != 2 || p.Combo != 400 {
		t.Errorf("play = %s %dx, want {998/0/0/2} 400x", p.Hits, p.Combo)
	}
}

func TestSimulatePOSTErrors(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"accuracy":`, 400},
		{"no beatmap", `{"accuracy":95}`, 400},
		{"accuracy out of range", `{"beatmap_hash":"` + stdMD5 + `","accuracy":101}`, 400},
		{"negative pin", `{"beatmap_hash":"` + stdMD5 + `","n100":-1}`, 400},
		{"unknown beatmap", `{"beatmap_id":12345}`, 404},
		{"unknown mode", `{"beatmap_hash":"` + stdMD5 + `","mode":"piano"}`, 400},
		{"catch without droplets", `{"beatmap_hash":"` + stdMD5 + `","mode":"fruits"}`, 400},
		{"mania converted", `{"beatmap_hash":"` + maniaMD5 + `","mode":"osu"}`, 400},
		{"mania accuracy", `{"beatmap_hash":"` + maniaMD5 + `","accuracy":95}`, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := doJSON(t, "POST", "/api/v1/simulate", tt.body)
			if code != tt.code {
				t.Errorf("status = %d, want %d (%s)", code, tt.code, resp["message"])
			}
			if string(resp["ok"]) != "false" {
				t.Errorf("ok = %s, want false", resp["ok"])
			}
		})
	}
}

func TestSimulateCatch(t *testing.T) {
	setupTestDB(t)

	body := `{"beatmap_hash":"` + stdMD5 + `","mode":"fruits","mods":"hd","fruits":300,"droplets":100,"tiny_droplets":50}`
	code, resp := doJSON(t, "POST", "/api/v1/simulate", body)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	p := decodePlay(t, resp["play"])
	if p.Hits != "{300/100/50/0}" || p.Grade != "XH" || p.Combo != 400 {
		t.Errorf("play = %+v", p)
	}
}

func TestPerfectGET(t *testing.T) {
	setupTestDB(t)

	code, resp := serve(t, httptest.NewRequest("GET", "/api/v1/perfect?beatmap_hash="+maniaMD5+"&mods=EZ", nil))
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	p := decodePlay(t, resp["play"])
	if p.NGeki != 800 || p.Score != 500000 || p.Grade != "X" {
		t.Errorf("play = %+v", p)
	}

	code, _ = serve(t, httptest.NewRequest("GET", "/api/v1/perfect?beatmap_id=abc", nil))
	if code != 400 {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestScoreGET(t *testing.T) {
	setupTestDB(t)

	_, resp := doJSON(t, "POST", "/api/v1/simulate", `{"beatmap_hash":"`+stdMD5+`","n100":10,"misses":1}`)
	p := decodePlay(t, resp["play"])

	code, resp := serve(t, httptest.NewRequest("GET", "/api/v1/score?id="+jsonInt(p.ScoreID), nil))
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	var score struct {
		Kind  string `json:"kind"`
		Hits  string `json:"hits"`
		Grade string `json:"grade"`
	}
	if err := json.Unmarshal(resp["score"], &score); err != nil {
		t.Fatal(err)
	}
	if score.Kind != kindSimulated || score.Hits != "{989/10/0/1}" || score.Grade != "A" {
		t.Errorf("score = %+v", score)
	}

	code, _ = serve(t, httptest.NewRequest("GET", "/api/v1/score?id=999", nil))
	if code != 404 {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestBeatmapPOST(t *testing.T) {
	setupTestDB(t)

	upload := func(data string) (int, map[string]json.RawMessage) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("beatmap", "test.osu")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(data))
		mw.Close()
		req := httptest.NewRequest("POST", "/api/v1/beatmap", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return serve(t, req)
	}

	code, resp := upload(testStdMap)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	var bm beatmap
	if err := json.Unmarshal(resp["beatmap"], &bm); err != nil {
		t.Fatal(err)
	}
	if bm.ID == 0 || bm.Circles != 2 || bm.Sliders != 1 || bm.Spinners != 1 {
		t.Errorf("beatmap = %+v", bm)
	}

	// uploading the same file twice is refused
	if code, _ := upload(testStdMap); code != 400 {
		t.Errorf("status = %d, want 400", code)
	}
	if code, _ := upload("not a beatmap"); code != 400 {
		t.Errorf("status = %d, want 400", code)
	}

	// the uploaded map can now be simulated on
	code, resp = doJSON(t, "POST", "/api/v1/simulate", `{"beatmap_hash":"`+bm.MD5+`"}`)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	if p := decodePlay(t, resp["play"]); p.Hits != "{4/0/0/0}" || p.Combo != 4 {
		t.Errorf("play = %+v", p)
	}
}

func TestNochokeGETWithoutAPI(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		query string
		code  int
	}{
		{"", 400},
		{"u=cookiezi&m=mania", 400},
		{"u=cookiezi&m=9", 400},
		{"u=cookiezi&miss_limit=-1", 400},
		{"u=cookiezi", 503},
	}
	for _, tt := range tests {
		code, _ := serve(t, httptest.NewRequest("GET", "/api/v1/nochoke?"+tt.query, nil))
		if code != tt.code {
			t.Errorf("nochoke?%s: status = %d, want %d", tt.query, code, tt.code)
		}
	}
}

func TestSchemaGET(t *testing.T) {
	code, resp := serve(t, httptest.NewRequest("GET", "/api/v1/schema", nil))
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	var props map[string]json.RawMessage
	if err := json.Unmarshal(resp["properties"], &props); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"accuracy", "misses", "n300", "ngeki"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema has no %q property", key)
		}
	}
}

func jsonInt(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

// useReplay makes ScorePOST read rep out of every uploaded file.
func useReplay(t *testing.T, rep replayInfo) {
	t.Helper()
	orig := decodeReplay
	decodeReplay = func([]byte) (replayInfo, error) { return rep, nil }
	t.Cleanup(func() { decodeReplay = orig })
}

func postReplay(t *testing.T, data string, fields map[string]string) (int, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("replay", "replay.osr")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(data))
	mw.Close()
	req := httptest.NewRequest("POST", "/api/v1/score", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return serve(t, req)
}

func TestScorePOST(t *testing.T) {
	setupTestDB(t)
	useReplay(t, replayInfo{
		BeatmapHash: stdMD5,
		Player:      "peppy",
		Play:        hits.Profile{Mode: hits.ModeStandard, N300: 950, N100: 40, N50: 5, Miss: 5, Combo: 600},
	})

	code, resp := postReplay(t, "replay one", nil)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, resp)
	}
	play := decodePlay(t, resp["play"])
	unchoked := decodePlay(t, resp["unchoked"])
	if play.Hits != "{950/40/5/5}" || play.Combo != 600 {
		t.Errorf("play = %+v", play)
	}
	if unchoked.Hits != "{954/41/5/0}" || unchoked.Combo != 1000 {
		t.Errorf("unchoked = %+v", unchoked)
	}
	if play.ScoreID == 0 || unchoked.ScoreID == 0 || play.ScoreID == unchoked.ScoreID {
		t.Fatalf("score ids %d and %d", play.ScoreID, unchoked.ScoreID)
	}

	// the same replay again is not stored twice
	_, resp = postReplay(t, "replay one", nil)
	if again := decodePlay(t, resp["unchoked"]); again.ScoreID != unchoked.ScoreID {
		t.Errorf("unchoked score_id = %d on repeat, want %d", again.ScoreID, unchoked.ScoreID)
	}

	rows, err := db.Query("SELECT kind, player, misses FROM scores ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	type row struct {
		kind, player string
		misses       int
	}
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.kind, &r.player, &r.misses); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	want := []row{{kindPlay, "peppy", 5}, {kindUnchoked, "peppy", 0}}
	if len(got) != len(want) {
		t.Fatalf("stored rows = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScorePOSTWithoutUnchoke(t *testing.T) {
	tests := []struct {
		name string
		rep  replayInfo
	}{
		{"full combo", replayInfo{
			BeatmapHash: stdMD5,
			Play:        hits.Profile{Mode: hits.ModeStandard, N300: 990, N100: 10, Combo: 1000},
		}},
		{"mania", replayInfo{
			BeatmapHash: maniaMD5,
			Play:        hits.Profile{Mode: hits.ModeMania, Geki: 700, N300: 90, Miss: 10, Score: 900000},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			useReplay(t, tt.rep)
			code, resp := postReplay(t, tt.name, nil)
			if code != 200 {
				t.Fatalf("status = %d, body %v", code, resp)
			}
			if _, ok := resp["unchoked"]; ok {
				t.Errorf("got an unchoked play: %s", resp["unchoked"])
			}
		})
	}
}

func TestScorePOSTCatch(t *testing.T) {
	rep := replayInfo{
		BeatmapHash: catchMD5,
		Play:        hits.Profile{Mode: hits.ModeCatch, N300: 280, N100: 90, N50: 45, Katu: 5, Miss: 20, Combo: 150},
	}
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		// misses split by the play's own fruit to droplet ratio
		{"estimated counts", nil, "{295/95/45/0}"},
		{"map counts", map[string]string{"fruits": "300", "droplets": "100", "tiny_droplets": "50"}, "{300/100/45/0}"},
		// incomplete counts fall back to the estimate
		{"partial counts", map[string]string{"fruits": "300"}, "{295/95/45/0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			useReplay(t, rep)
			code, resp := postReplay(t, tt.name, tt.fields)
			if code != 200 {
				t.Fatalf("status = %d, body %v", code, resp)
			}
			if got := decodePlay(t, resp["unchoked"]); got.Hits != tt.want || got.Misses != 0 {
				t.Errorf("unchoked = %s, want %s", got.Hits, tt.want)
			}
		})
	}
}

func TestScorePOSTErrors(t *testing.T) {
	setupTestDB(t)
	useReplay(t, replayInfo{BeatmapHash: catchMD5, Play: hits.Profile{Mode: hits.ModeCatch, N300: 10, Miss: 1}})

	if code, _ := postReplay(t, "bad count", map[string]string{"droplets": "-1"}); code != 400 {
		t.Errorf("negative droplets: status = %d, want 400", code)
	}

	decodeReplay = func([]byte) (replayInfo, error) { return replayInfo{}, errors.New("not an osr") }
	if code, _ := postReplay(t, "garbage", nil); code != 400 {
		t.Errorf("undecodable replay: status = %d, want 400", code)
	}

	code, _ := serve(t, httptest.NewRequest("POST", "/api/v1/score", nil))
	if code != 400 {
		t.Errorf("no file: status = %d, want 400", code)
	}
}
