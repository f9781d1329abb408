package translation

import "medlens/pkg/models"

// languages lists every supported translation target. Name is the lowercase lookup key.
var languages = []models.Language{
	{Name: "english", Code: "en", DisplayName: "English"},
	{Name: "spanish", Code: "es", DisplayName: "Spanish"},
	{Name: "french", Code: "fr", DisplayName: "French"},
	{Name: "german", Code: "de", DisplayName: "German"},
	{Name: "italian", Code: "it", DisplayName: "Italian"},
	{Name: "portuguese", Code: "pt", DisplayName: "Portuguese"},
	{Name: "russian", Code: "ru", DisplayName: "Russian"},
	{Name: "chinese", Code: "zh", DisplayName: "Simplified Chinese"},
	{Name: "japanese", Code: "ja", DisplayName: "Japanese"},
	{Name: "korean", Code: "ko", DisplayName: "Korean"},
	{Name: "arabic", Code: "ar", DisplayName: "Arabic"},
	{Name: "hindi", Code: "hi", DisplayName: "Hindi"},
	{Name: "urdu", Code: "ur", DisplayName: "Urdu"},
	{Name: "bengali", Code: "bn", DisplayName: "Bengali"},
	{Name: "punjabi", Code: "pa", DisplayName: "Punjabi"},
	{Name: "turkish", Code: "tr", DisplayName: "Turkish"},
	{Name: "vietnamese", Code: "vi", DisplayName: "Vietnamese"},
	{Name: "thai", Code: "th", DisplayName: "Thai"},
	{Name: "tagalog", Code: "tl", DisplayName: "Tagalog"},
	{Name: "polish", Code: "pl", DisplayName: "Polish"},
	{Name: "dutch", Code: "nl", DisplayName: "Dutch"},
	{Name: "greek", Code: "el", DisplayName: "Greek"},
	{Name: "khmer", Code: "km", DisplayName: "Khmer"},
}

const promptTemplate = `You are a professional medical translator. Translate the following medical text to %s. 

Guidelines:
- Maintain medical accuracy
- Use appropriate medical terminology in the target language
- Keep the tone professional but accessible
- Preserve any formatting (bold, lists, etc.)
- If a medical term doesn't have a direct translation, provide both the original term and explanation
- Use natural, native-speaker level language

Text to translate:
%s`

const demoSpanish = `**Resumen Simple**: 
Tuviste un ataque al corazón (STEMI) lo que significa que uno de los vasos sanguíneos que suministra sangre a tu músculo cardíaco se bloqueó. Los doctores rápidamente lo abrieron con un procedimiento llamado angioplastia y colocaron un pequeño tubo (stent) para mantenerlo abierto. Esta es una condición común y muy tratable.

**Términos Clave**:
- **STEMI**: Un tipo serio de ataque al corazón donde un vaso sanguíneo está completamente bloqueado
- **Angioplastia**: Un procedimiento para abrir vasos sanguíneos bloqueados en el corazón
- **Stent**: Un pequeño tubo de malla que mantiene los vasos sanguíneos abiertos
- **Hipertensión**: Presión arterial alta
- **Hiperlipidemia**: Niveles altos de colesterol

**Lo que esto significa**:
- ¡Vas a estar bien! Esta es una condición muy tratable
- Necesitarás tomar medicamentos para prevenir problemas futuros
- Haz seguimiento con tu cardiólogo y médico de atención primaria
- Comienza rehabilitación cardíaca para fortalecer tu corazón
- Haz cambios en el estilo de vida como comer saludable y hacer ejercicio
- Evita levantar objetos pesados por una semana, luego regresa gradualmente a actividades normales

Recuerda: Esta es información educativa, no consejo médico. Siempre consulta a tu equipo de atención médica para decisiones médicas.`

const demoUrdu = `**آسان خلاصہ**: 
آپ کو دل کا دورہ پڑا (STEMI) جس کا مطلب ہے کہ آپ کے دل کے پٹھے کو خون فراہم کرنے والی ایک رگ بند ہو گئی۔ ڈاکٹروں نے فوری طور پر اسے کھول دیا اور ایک چھوٹی ٹیوب (stent) لگا دی۔ یہ ایک عام اور قابل علاج حالت ہے۔

**اہم اصطلاحات**:
- **STEMI**: دل کے دورے کی ایک سنگین قسم جہاں خون کی رگ مکمل طور پر بند ہو جاتی ہے
- **Angioplasty**: دل میں بند خون کی رگوں کو کھولنے کا طریقہ
- **Stent**: ایک چھوٹی جالی دار ٹیوب جو خون کی رگوں کو کھلا رکھتی ہے
- **Hypertension**: ہائی بلڈ پریشر
- **Hyperlipidemia**: کولیسٹرول کی زیادہ مقدار

**اس کا کیا مطلب ہے**:
- آپ ٹھیک ہو جائیں گے! یہ ایک قابل علاج حالت ہے
- آپ کو مستقبل کے مسائل سے بچنے کے لیے دوائیں لینی ہوں گی
- اپنے کارڈیالوجسٹ اور پرائمری ڈاکٹر سے فالو اپ کریں
- اپنے دل کو مضبوط بنانے کے لیے کارڈیک ری ہیبلیٹیشن شروع کریں
- صحت مند کھانا اور ورزش جیسے طرز زندگی میں تبدیلیاں کریں
- ایک ہفتے تک بھاری چیزوں کو اٹھانے سے گریز کریں

یاد رکھیں: یہ تعلیمی معلومات ہے، طبی مشورہ نہیں۔ طبی فیصلوں کے لیے ہمیشہ اپنی ہیلتھ کیئر ٹیم سے مشورہ کریں۔`
