package server

// SamplesPage is the samples app landing page: access token entry and links
// to the widget samples.
const SamplesPage = `<!DOCTYPE html>
<html>
<head>
    <title>Webex Widgets Samples</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="container">
        <h1>Webex Widgets Samples</h1>
        <p class="subtitle">Enter an access token, then pick a widget.</p>

        <label for="access-token">Access token</label>
        <input id="access-token" type="password" autocomplete="off" />
        <button id="save-token" onclick="saveToken()">Save token</button>
        <div id="token-status"></div>

        <nav>
            <a id="meeting-widget-link" href="/meeting">Meeting Widget</a>
        </nav>
    </div>

    <script>
        function saveToken() {
            const token = document.getElementById('access-token').value.trim();
            localStorage.setItem('webex-access-token', token);
            document.getElementById('token-status').textContent = token ? 'Token saved' : 'Token cleared';
        }
        document.getElementById('access-token').value = localStorage.getItem('webex-access-token') || '';
    </script>
</body>
</html>`

// MeetingPage hosts the meeting widget. The widget renders into
// #widget-container and talks to /offer, /leave and the /v1 platform API.
const MeetingPage = `<!DOCTYPE html>
<html>
<head>
    <title>Webex Meeting Widget</title>
    <style>` + pageStyle + `</style>
</head>
<body>
    <div class="container">
        <h2 class="widget-title">Webex Meeting Widget</h2>

        <label for="meeting-destination">Meeting destination</label>
        <input id="meeting-destination" type="text" autocomplete="off" />
        <button id="load-widget" onclick="loadWidget()">Load widget</button>
        <button id="unload-widget" class="stop" onclick="unloadWidget()">Unload widget</button>

        <div id="widget-container"></div>
    </div>

    <script>
        let logLevel = 'info';
        let state = null;

        window.webexSDKAdapterSetLogLevel = function (level) {
            logLevel = level;
            console.log('adapter log level set to', level);
        };

        function debug(...args) {
            if (logLevel === 'debug') {
                console.log('[meeting-widget]', ...args);
            }
        }

        function render() {
            const container = document.getElementById('widget-container');
            if (!state) {
                container.innerHTML = '';
                return;
            }

            if (state.phase === 'left') {
                container.innerHTML =
                    '<div class="wxc-meeting">' +
                    '<div class="wxc-meeting-message">You\'ve successfully left the meeting</div>' +
                    '</div>';
                return;
            }

            const audioBtn = state.audioMuted
                ? '<button aria-label="Unmute audio" onclick="toggleAudio()">Unmute</button>'
                : '<button aria-label="Mute audio" onclick="toggleAudio()">Mute</button>';
            const videoBtn = state.videoMuted
                ? '<button aria-label="Start video" onclick="toggleVideo()">Start video</button>'
                : '<button aria-label="Stop video" onclick="toggleVideo()">Stop video</button>';
            const callBtn = state.phase === 'joined'
                ? '<button aria-label="Leave meeting" class="stop" onclick="leaveMeeting()">Leave</button>'
                : '<button aria-label="Join meeting" onclick="joinMeeting()">Join meeting</button>';
            const waiting = state.phase === 'joined'
                ? '<div class="wxc-waiting-for-others">Waiting for others to join...</div>'
                : '';
            const failure = state.error
                ? '<div class="wxc-meeting-error"></div>'
                : '';

            container.innerHTML =
                '<div class="wxc-meeting">' +
                '<div class="wxc-meeting-info"><span class="wxc-meeting-title"></span></div>' +
                '<video id="local-video" autoplay muted playsinline></video>' +
                waiting +
                failure +
                '<div class="wxc-meeting-control-bar">' + audioBtn + videoBtn + callBtn + '</div>' +
                '</div>';
            container.querySelector('.wxc-meeting-title').textContent = state.title;
            container.querySelector('#local-video').srcObject = state.stream;
            if (state.error) {
                container.querySelector('.wxc-meeting-error').textContent = state.error;
            }
        }

        async function lookupTitle(token, destination) {
            try {
                const resp = await fetch('/v1/rooms/' + encodeURIComponent(destination), {
                    headers: { 'Authorization': 'Bearer ' + token }
                });
                if (resp.ok) {
                    const room = await resp.json();
                    return room.title || destination;
                }
            } catch (err) {
                debug('room lookup failed', err);
            }
            return destination;
        }

        async function loadWidget() {
            unloadWidget();
            const token = localStorage.getItem('webex-access-token') || '';
            const destination = document.getElementById('meeting-destination').value.trim();

            let stream = null;
            try {
                stream = await navigator.mediaDevices.getUserMedia({ audio: true, video: { width: 640, height: 480 } });
            } catch (err) {
                debug('getUserMedia failed', err);
            }

            state = {
                phase: 'ready',
                token: token,
                destination: destination,
                title: destination,
                stream: stream,
                audioMuted: false,
                videoMuted: false,
                error: '',
                pc: null,
                session: null
            };
            render();

            const current = state;
            const title = await lookupTitle(token, destination);
            if (state === current && state.phase !== 'left') {
                state.title = title;
                const el = document.querySelector('.wxc-meeting-title');
                if (el) {
                    el.textContent = title;
                }
            }
        }

        function unloadWidget() {
            if (state) {
                teardownCall();
                if (state.stream) {
                    state.stream.getTracks().forEach(t => t.stop());
                }
            }
            state = null;
            render();
        }

        function setTracksEnabled(kind, enabled) {
            if (!state || !state.stream) {
                return;
            }
            state.stream.getTracks().filter(t => t.kind === kind).forEach(t => { t.enabled = enabled; });
        }

        function toggleAudio() {
            state.audioMuted = !state.audioMuted;
            setTracksEnabled('audio', !state.audioMuted);
            debug('audio muted', state.audioMuted);
            render();
        }

        function toggleVideo() {
            state.videoMuted = !state.videoMuted;
            setTracksEnabled('video', !state.videoMuted);
            debug('video muted', state.videoMuted);
            render();
        }

        async function joinMeeting() {
            const current = state;
            current.error = '';
            const pc = new RTCPeerConnection({ iceServers: [] });
            current.pc = pc;
            if (current.stream) {
                current.stream.getTracks().forEach(t => pc.addTrack(t, current.stream));
            }

            const offer = await pc.createOffer();
            await pc.setLocalDescription(offer);
            await new Promise(resolve => {
                if (pc.iceGatheringState === 'complete') {
                    resolve();
                    return;
                }
                pc.onicegatheringstatechange = () => {
                    if (pc.iceGatheringState === 'complete') {
                        resolve();
                    }
                };
            });

            const resp = await fetch('/offer?destination=' + encodeURIComponent(current.destination), {
                method: 'POST',
                headers: { 'Content-Type': 'application/json', 'Authorization': 'Bearer ' + current.token },
                body: JSON.stringify(pc.localDescription)
            });
            if (!resp.ok) {
                const reason = (await resp.text()).trim();
                debug('join failed', resp.status, reason);
                pc.close();
                current.pc = null;
                if (state === current) {
                    current.error = 'Unable to join the meeting: ' + (reason || resp.status);
                    render();
                }
                return;
            }
            current.session = resp.headers.get('X-Session-ID');
            await pc.setRemoteDescription(await resp.json());
            debug('joined session', current.session);

            if (state === current) {
                current.phase = 'joined';
                render();
            }
        }

        function teardownCall() {
            if (state.pc) {
                state.pc.close();
                state.pc = null;
            }
            if (state.session) {
                fetch('/leave?session=' + encodeURIComponent(state.session), { method: 'POST' });
                state.session = null;
            }
        }

        function leaveMeeting() {
            teardownCall();
            if (state.stream) {
                state.stream.getTracks().forEach(t => t.stop());
                state.stream = null;
            }
            state.phase = 'left';
            render();
        }
    </script>
</body>
</html>`

const pageStyle = `
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 800px;
            margin: 50px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        h1, h2 { color: #333; margin-bottom: 10px; }
        .subtitle { color: #666; margin-bottom: 30px; }
        input { padding: 8px; margin-right: 10px; min-width: 320px; }
        button {
            background: #4285f4;
            color: white;
            border: none;
            padding: 12px 24px;
            border-radius: 4px;
            cursor: pointer;
            font-size: 16px;
            margin-right: 10px;
        }
        button:hover { background: #3367d6; }
        button.stop { background: #ea4335; }
        button.stop:hover { background: #d93025; }
        nav { margin-top: 20px; }
        .wxc-meeting { margin-top: 20px; padding: 20px; border: 1px solid #ddd; border-radius: 4px; }
        .wxc-meeting-info { font-weight: 500; margin-bottom: 10px; }
        .wxc-waiting-for-others { margin: 10px 0; color: #856404; }
        .wxc-meeting-control-bar { margin-top: 10px; }
        #local-video {
            width: 100%;
            max-width: 640px;
            min-height: 120px;
            background: #000;
            border-radius: 4px;
        }
`
