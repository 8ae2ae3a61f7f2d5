package service

// User-facing messages. The mobile client displays them verbatim.
const (
	msgImageRequired       = "Image requise"
	msgMissingAPIKey       = "Clé API OpenAI manquante"
	msgNetworkError        = "Impossible de se connecter au service. Vérifiez votre connexion internet et réessayez."
	msgProviderAuth        = "Service temporairement indisponible. Veuillez réessayer."
	msgProviderOverloaded  = "Service surchargé. Veuillez réessayer dans quelques minutes."
	msgProviderBadRequest  = "Erreur de traitement: %s"
	msgProviderOther       = "Erreur service (%d): %s"
	msgUndecodableResponse = "Erreur de traitement des données. Veuillez réessayer."
	msgEmptyCompletion     = "Aucune recette générée. Veuillez réessayer."
	msgUnparsableRecipe    = "Erreur de traitement des données de recette. Veuillez réessayer."
	msgIncompleteRecipe    = "Données de recette incomplètes. Veuillez réessayer."

	msgImageFieldsRequired = "Titre de recette et ID requis"
	msgInvalidRecipeID     = "ID de recette invalide"
	msgImageUnavailable    = "Service de préparation d'images indisponible"
	msgImageFailed         = "Échec de la préparation d'image"

	msgSMSFieldsRequired = "Numéro de téléphone et code de vérification requis"
	msgSMSUnavailable    = "Service SMS temporairement indisponible"
	msgInvalidPhone      = "Numéro de téléphone invalide"
	msgPhoneNotSupported = "Numéro de téléphone non valide pour ce pays"
	msgSMSFailed         = "Erreur lors de l'envoi du SMS"
	smsBodyTemplate      = "Votre code de vérification NutriScan est : %s. Ce code expire dans 10 minutes."
)

// MsgSMSUnavailable is returned when no SMS provider is configured
const MsgSMSUnavailable = msgSMSUnavailable
