package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/nack"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"

	"github.com/thesyncim/meetingwidget/pkg/log"
)

// pliInterval paces keyframe requests on received video.
const pliInterval = 3 * time.Second

// MediaStats counts RTP packets received from joined participants.
type MediaStats struct {
	Sessions     int    `json:"sessions"`
	AudioPackets uint64 `json:"audioPackets"`
	VideoPackets uint64 `json:"videoPackets"`
	PLIsSent     uint64 `json:"plisSent"`
}

type session struct {
	id          string
	destination string
	pc          *webrtc.PeerConnection
	done        chan struct{}
	closeOnce   sync.Once
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.pc.Close(); err != nil {
			log.Warnf("session %s: close peer connection: %v", s.id, err)
		}
	})
}

// media is the meeting media endpoint: one receive-only peer connection per
// joined participant.
type media struct {
	mu       sync.Mutex
	sessions map[string]*session

	audioPackets atomic.Uint64
	videoPackets atomic.Uint64
	plisSent     atomic.Uint64
}

func newMedia() *media {
	return &media{sessions: make(map[string]*session)}
}

func (m *media) newAPI() (*webrtc.API, error) {
	me := &webrtc.MediaEngine{}
	if err := me.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	me.RegisterFeedback(webrtc.RTCPFeedback{Type: "nack"}, webrtc.RTPCodecTypeVideo)
	me.RegisterFeedback(webrtc.RTCPFeedback{Type: "nack", Parameter: "pli"}, webrtc.RTPCodecTypeVideo)

	i := &interceptor.Registry{}
	if err := webrtc.ConfigureRTCPReports(i); err != nil {
		return nil, err
	}

	// Receiver side: ask for retransmissions on loss.
	generator, err := nack.NewGeneratorInterceptor()
	if err != nil {
		return nil, err
	}
	i.Add(generator)

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(me),
		webrtc.WithInterceptorRegistry(i),
	), nil
}

// HandleOffer answers a participant's offer and registers the session. The
// session id is returned in the X-Session-ID header. Joining requires a bearer
// token and a destination.
func (m *media) HandleOffer(w http.ResponseWriter, r *http.Request) {
	if bearer(r) == "" {
		http.Error(w, "Access token required", http.StatusUnauthorized)
		return
	}
	destination := r.URL.Query().Get("destination")
	if destination == "" {
		http.Error(w, "Meeting destination required", http.StatusBadRequest)
		return
	}

	var offer webrtc.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		log.Warnf("Failed to decode offer: %v", err)
		http.Error(w, "Invalid offer", http.StatusBadRequest)
		return
	}

	api, err := m.newAPI()
	if err != nil {
		log.Errorf("Failed to build WebRTC API: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	pc, err := api.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{}, // Local testing
	})
	if err != nil {
		log.Errorf("Failed to create peer connection: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	sess := &session{
		id:          uuid.NewString(),
		destination: destination,
		pc:          pc,
		done:        make(chan struct{}),
	}

	for _, kind := range []webrtc.RTPCodecType{webrtc.RTPCodecTypeAudio, webrtc.RTPCodecTypeVideo} {
		if _, err := pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			log.Errorf("Failed to add %s transceiver: %v", kind, err)
			pc.Close()
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		log.WithFields(map[string]interface{}{
			"session": sess.id,
			"kind":    track.Kind().String(),
			"codec":   track.Codec().MimeType,
			"ssrc":    uint32(track.SSRC()),
		}).Info("received track")

		if track.Kind() == webrtc.RTPCodecTypeVideo {
			go m.requestKeyframes(sess, uint32(track.SSRC()))
		}
		go m.readTrack(sess, track)
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Debugf("session %s: connection state %s", sess.id, state)
		if state == webrtc.PeerConnectionStateFailed || state == webrtc.PeerConnectionStateClosed {
			m.remove(sess.id)
		}
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		log.Warnf("Failed to set remote description: %v", err)
		pc.Close()
		http.Error(w, "Invalid offer", http.StatusBadRequest)
		return
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		log.Errorf("Failed to create answer: %v", err)
		pc.Close()
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		log.Errorf("Failed to set local description: %v", err)
		pc.Close()
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	<-gatherComplete

	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"session":     sess.id,
		"destination": sess.destination,
	}).Info("participant joined")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-ID", sess.id)
	json.NewEncoder(w).Encode(pc.LocalDescription())
}

// HandleLeave closes the session named by the session query parameter.
func (m *media) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if !m.remove(id) {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}
	log.WithFields(map[string]interface{}{"session": id}).Info("participant left")
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats reports MediaStats as JSON.
func (m *media) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Stats())
}

func (m *media) Stats() MediaStats {
	m.mu.Lock()
	n := len(m.sessions)
	m.mu.Unlock()
	return MediaStats{
		Sessions:     n,
		AudioPackets: m.audioPackets.Load(),
		VideoPackets: m.videoPackets.Load(),
		PLIsSent:     m.plisSent.Load(),
	}
}

func (m *media) remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.close()
	}
	return ok
}

func (m *media) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

func (m *media) readTrack(sess *session, track *webrtc.TrackRemote) {
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			log.Debugf("session %s: track read ended: %v", sess.id, err)
			return
		}
		m.record(track.Kind(), pkt)
	}
}

func (m *media) record(kind webrtc.RTPCodecType, pkt *rtp.Packet) {
	if pkt == nil || len(pkt.Payload) == 0 {
		return
	}
	switch kind {
	case webrtc.RTPCodecTypeAudio:
		m.audioPackets.Add(1)
	case webrtc.RTPCodecTypeVideo:
		m.videoPackets.Add(1)
	}
}

func (m *media) requestKeyframes(sess *session, ssrc uint32) {
	ticker := time.NewTicker(pliInterval)
	defer ticker.Stop()
	for {
		select {
		case <-sess.done:
			return
		case <-ticker.C:
			err := sess.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: ssrc}})
			if errors.Is(err, io.ErrClosedPipe) {
				return
			}
			if err != nil {
				log.Debugf("session %s: PLI failed: %v", sess.id, err)
				continue
			}
			m.plisSent.Add(1)
		}
	}
}
