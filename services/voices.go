package services

import "sort"

// Voice is one Edge TTS voice the narration synthesizer can use.
type Voice struct {
	ID       string
	Language string
	Gender   string
}

// voiceCatalog is a curated subset of the Edge TTS voice list covering
// the languages slide decks most commonly narrate in. Any valid voice ID
// can still be set in the configuration; this list only feeds the voices
// command.
var voiceCatalog = []Voice{
	{ID: "en-US-AriaNeural", Language: "English (US)", Gender: "Female"},
	{ID: "en-US-GuyNeural", Language: "English (US)", Gender: "Male"},
	{ID: "en-US-JennyNeural", Language: "English (US)", Gender: "Female"},
	{ID: "en-GB-SoniaNeural", Language: "English (UK)", Gender: "Female"},
	{ID: "en-GB-RyanNeural", Language: "English (UK)", Gender: "Male"},
	{ID: "zh-CN-XiaoxiaoNeural", Language: "Chinese (Mandarin)", Gender: "Female"},
	{ID: "zh-CN-YunxiNeural", Language: "Chinese (Mandarin)", Gender: "Male"},
	{ID: "zh-CN-YunyangNeural", Language: "Chinese (Mandarin)", Gender: "Male"},
	{ID: "es-ES-ElviraNeural", Language: "Spanish (Spain)", Gender: "Female"},
	{ID: "es-MX-JorgeNeural", Language: "Spanish (Mexico)", Gender: "Male"},
	{ID: "fr-FR-DeniseNeural", Language: "French", Gender: "Female"},
	{ID: "fr-FR-HenriNeural", Language: "French", Gender: "Male"},
	{ID: "de-DE-KatjaNeural", Language: "German", Gender: "Female"},
	{ID: "de-DE-ConradNeural", Language: "German", Gender: "Male"},
	{ID: "ja-JP-NanamiNeural", Language: "Japanese", Gender: "Female"},
	{ID: "ja-JP-KeitaNeural", Language: "Japanese", Gender: "Male"},
	{ID: "ko-KR-SunHiNeural", Language: "Korean", Gender: "Female"},
	{ID: "pt-BR-FranciscaNeural", Language: "Portuguese (Brazil)", Gender: "Female"},
	{ID: "it-IT-ElsaNeural", Language: "Italian", Gender: "Female"},
	{ID: "hi-IN-SwaraNeural", Language: "Hindi", Gender: "Female"},
}

// ListVoices returns the curated voices sorted by ID.
func ListVoices() []Voice {
	out := make([]Voice, len(voiceCatalog))
	copy(out, voiceCatalog)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
